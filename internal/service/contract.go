package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"complianceapi/internal/extract"
	"complianceapi/internal/llm"
	"complianceapi/internal/model"
	"complianceapi/internal/repository"
	"complianceapi/internal/storage"
)

// ProcessResult is the response body of a processed upload.
type ProcessResult struct {
	ID       string         `json:"id"`
	Clauses  []model.Clause `json:"clauses"`
	FileName string         `json:"file_name"`
	FileType string         `json:"file_type"`
}

// MaxDownloadExpiry caps the lifetime of pre-signed download URLs.
const MaxDownloadExpiry = 7 * 24 * time.Hour

// ContractListResult is the service-level DTO for paginated contracts.
type ContractListResult struct {
	Items []model.Contract `json:"data"`
	Total int              `json:"total"`
}

// ContractService defines the use cases for uploaded contracts.
type ContractService interface {
	// Process reads the upload, extracts its text and key clauses, then stores the file and its record.
	// Nothing is stored when extraction fails. Storage is rolled back if the DB save fails.
	Process(ctx context.Context, r io.Reader, filename, contentType string, size int64) (*ProcessResult, error)

	// List returns contracts using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*ContractListResult, error)

	// Get returns a single contract by its ID.
	Get(ctx context.Context, id string) (*model.Contract, error)

	// Delete removes a contract by ID from both storage and repository.
	Delete(ctx context.Context, id string) error

	// Open streams the stored file of a contract. The caller closes the reader.
	Open(ctx context.Context, id string) (io.ReadCloser, *model.Contract, error)

	// DownloadURL returns a pre-signed URL for the stored file, valid for expiry.
	DownloadURL(ctx context.Context, id string, expiry time.Duration) (string, error)
}

type contractService struct {
	store    storage.Storage
	repo     repository.ContractRepository
	llm      llm.Client
	maxBytes int64
	logger   *zap.Logger
}

// NewContractService constructs a new ContractService. Uploads larger than maxBytes are rejected.
func NewContractService(store storage.Storage, repo repository.ContractRepository, client llm.Client, maxBytes int64, logger *zap.Logger) ContractService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &contractService{store: store, repo: repo, llm: client, maxBytes: maxBytes, logger: logger}
}

func (s *contractService) Process(ctx context.Context, r io.Reader, filename, contentType string, size int64) (*ProcessResult, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return nil, extract.ErrTooLarge
	}

	ct := extract.DetectContentType(filename, contentType)
	if !extract.Supported(ct) {
		return nil, fmt.Errorf("%w: %s", extract.ErrUnsupportedType, displayType(ct))
	}

	data, err := s.readAll(r)
	if err != nil {
		return nil, err
	}

	text, err := extract.ExtractText(data, ct)
	if err != nil {
		if errors.Is(err, extract.ErrNoText) || errors.Is(err, extract.ErrUnsupportedType) {
			return nil, err
		}
		// a corrupt file yields no usable text
		return nil, fmt.Errorf("%w: %v", extract.ErrNoText, err)
	}

	clauses, err := s.llm.ExtractClauses(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extract clauses: %w", err)
	}

	id := uuid.New().String()
	key := storage.ContractKey(id, filename)
	objInfo, err := s.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: ct,
		Metadata: map[string]string{
			storage.MetaOriginalFilename: filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	contract := &model.Contract{
		ID:           id,
		Filename:     strings.TrimPrefix(key, storage.ContractPrefix),
		OriginalName: filename,
		StoragePath:  objInfo.Key,
		Size:         int64(len(data)),
		ContentType:  ct,
		Clauses:      clauses,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.repo.Create(ctx, contract); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.logger.Info("contract_processed",
		zap.String("contract_id", id),
		zap.String("content_type", ct),
		zap.Int("size", len(data)),
		zap.Int("clauses", len(clauses)),
	)

	return &ProcessResult{
		ID:       id,
		Clauses:  clauses,
		FileName: filename,
		FileType: ct,
	}, nil
}

// readAll reads at most maxBytes, failing with ErrTooLarge when the body is longer.
func (s *contractService) readAll(r io.Reader) ([]byte, error) {
	if s.maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, extract.ErrTooLarge
	}
	return data, nil
}

func displayType(ct string) string {
	if ct == "" {
		return "unknown"
	}
	return ct
}

// List returns paginated contracts without exposing repository types.
func (s *contractService) List(ctx context.Context, limit, offset int) (*ContractListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ContractListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a contract by ID.
func (s *contractService) Get(ctx context.Context, id string) (*model.Contract, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// Delete removes a contract from storage, then deletes its record.
func (s *contractService) Delete(ctx context.Context, id string) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	// storage first: if this fails the row still points at the object
	if err := s.store.Delete(ctx, c.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

// Open returns the stored object of a contract.
func (s *contractService) Open(ctx context.Context, id string) (io.ReadCloser, *model.Contract, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.store.Get(ctx, c.StoragePath)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	return rc, c, nil
}

// DownloadURL presigns a GET for the stored file. Expiry is clamped to (0, MaxDownloadExpiry].
func (s *contractService) DownloadURL(ctx context.Context, id string, expiry time.Duration) (string, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if expiry <= 0 || expiry > MaxDownloadExpiry {
		expiry = MaxDownloadExpiry
	}
	url, err := s.store.PresignGet(ctx, c.StoragePath, expiry)
	if err != nil {
		return "", fmt.Errorf("presign: %w", err)
	}
	return url, nil
}
