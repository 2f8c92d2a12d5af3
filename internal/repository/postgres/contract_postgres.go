package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"complianceapi/internal/model"
	"complianceapi/internal/repository"
)

// ContractPostgres is a PostgreSQL implementation of repository.ContractRepository.
// It uses database/sql with parameterized queries and contains no business logic.
// Clauses and reports are stored as JSONB.
type ContractPostgres struct {
	db *sql.DB
}

// NewContractPostgres creates a new ContractPostgres repository.
func NewContractPostgres(db *sql.DB) *ContractPostgres {
	return &ContractPostgres{db: db}
}

var _ repository.ContractRepository = (*ContractPostgres)(nil)

const contractColumns = `id, filename, original_name, storage_path, size, content_type, clauses, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanContract(s scanner) (*model.Contract, error) {
	var (
		c           model.Contract
		original    sql.NullString
		clausesJSON []byte
	)
	if err := s.Scan(
		&c.ID,
		&c.Filename,
		&original,
		&c.StoragePath,
		&c.Size,
		&c.ContentType,
		&clausesJSON,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}
	c.OriginalName = original.String
	c.Clauses = []model.Clause{}
	if len(clausesJSON) > 0 {
		if err := json.Unmarshal(clausesJSON, &c.Clauses); err != nil {
			return nil, fmt.Errorf("decode clauses of %s: %w", c.ID, err)
		}
	}
	return &c, nil
}

// Create inserts a new contract row and returns the stored record.
func (r *ContractPostgres) Create(ctx context.Context, c *model.Contract) (*model.Contract, error) {
	clauses := c.Clauses
	if clauses == nil {
		clauses = []model.Clause{}
	}
	clausesJSON, err := json.Marshal(clauses)
	if err != nil {
		return nil, err
	}

	const q = `
		INSERT INTO contracts (id, filename, original_name, storage_path, size, content_type, clauses, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + contractColumns
	row := r.db.QueryRowContext(ctx, q,
		c.ID,
		c.Filename,
		sql.NullString{String: c.OriginalName, Valid: c.OriginalName != ""},
		c.StoragePath,
		c.Size,
		c.ContentType,
		clausesJSON,
		c.CreatedAt,
	)
	return scanContract(row)
}

// FindByID fetches a single contract by its ID.
func (r *ContractPostgres) FindByID(ctx context.Context, id string) (*model.Contract, error) {
	const q = `
		SELECT ` + contractColumns + `
		FROM contracts
		WHERE id = $1
	`
	c, err := scanContract(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns contracts using LIMIT/OFFSET pagination and a total count.
func (r *ContractPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Contract], error) {
	const qCount = `SELECT COUNT(*) FROM contracts`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + contractColumns + `
		FROM contracts
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Contract, 0)
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Contract]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes a contract by ID. Analyses go with it through ON DELETE CASCADE.
func (r *ContractPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM contracts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// SaveAnalysis inserts an analysis row and returns the stored record.
func (r *ContractPostgres) SaveAnalysis(ctx context.Context, a *model.ContractAnalysis) (*model.ContractAnalysis, error) {
	reportJSON, err := json.Marshal(a.Report)
	if err != nil {
		return nil, err
	}
	const q = `
		INSERT INTO contract_analyses (id, contract_id, report, similar_document_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, contract_id, report, similar_document_id, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		a.ID,
		a.ContractID,
		reportJSON,
		sql.NullString{String: a.SimilarDocumentID, Valid: a.SimilarDocumentID != ""},
		a.CreatedAt,
	)
	return scanAnalysis(row)
}

// LatestAnalysis returns the newest analysis of a contract.
func (r *ContractPostgres) LatestAnalysis(ctx context.Context, contractID string) (*model.ContractAnalysis, error) {
	const q = `
		SELECT id, contract_id, report, similar_document_id, created_at
		FROM contract_analyses
		WHERE contract_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	a, err := scanAnalysis(r.db.QueryRowContext(ctx, q, contractID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func scanAnalysis(s scanner) (*model.ContractAnalysis, error) {
	var (
		a          model.ContractAnalysis
		reportJSON []byte
		similar    sql.NullString
	)
	if err := s.Scan(&a.ID, &a.ContractID, &reportJSON, &similar, &a.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(reportJSON, &a.Report); err != nil {
		return nil, fmt.Errorf("decode report of %s: %w", a.ID, err)
	}
	a.SimilarDocumentID = similar.String
	return &a, nil
}
