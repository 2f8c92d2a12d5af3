package repository

import (
	"context"

	"complianceapi/internal/model"
)

// ContractRepository defines data access for contracts and their analyses using SQL queries only.
// No business logic here. Strictly persistence operations.
type ContractRepository interface {
	// Create inserts a new contract record.
	// The caller provides ID and CreatedAt. Returns the stored contract.
	Create(ctx context.Context, c *model.Contract) (*model.Contract, error)

	// FindByID returns a contract by its ID, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Contract, error)

	// List returns a paginated list of contracts, newest first, and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Contract], error)

	// Delete removes a contract by ID along with its analyses. It returns nil if the row did not exist.
	Delete(ctx context.Context, id string) error

	// SaveAnalysis stores a compliance report for a contract.
	SaveAnalysis(ctx context.Context, a *model.ContractAnalysis) (*model.ContractAnalysis, error)

	// LatestAnalysis returns the most recent analysis of a contract, or ErrNotFound.
	LatestAnalysis(ctx context.Context, contractID string) (*model.ContractAnalysis, error)
}
