package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"complianceapi/internal/model"
	"complianceapi/internal/repository"
)

var contractCols = []string{"id", "filename", "original_name", "storage_path", "size", "content_type", "clauses", "created_at"}

func TestContractPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewContractPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	c := &model.Contract{
		ID:           "test-uuid",
		Filename:     "test-uuid.pdf",
		OriginalName: "msa.pdf",
		StoragePath:  "contracts/test-uuid.pdf",
		Size:         123,
		ContentType:  "application/pdf",
		Clauses:      []model.Clause{{Clause: "Termination", Description: "30 days"}},
		CreatedAt:    now,
	}
	clausesJSON := []byte(`[{"clause":"Termination","description":"30 days"}]`)

	rows := sqlmock.NewRows(contractCols).
		AddRow(c.ID, c.Filename, c.OriginalName, c.StoragePath, c.Size, c.ContentType, clausesJSON, c.CreatedAt)

	mock.ExpectQuery("INSERT INTO contracts").
		WithArgs(c.ID, c.Filename, c.OriginalName, c.StoragePath, c.Size, c.ContentType, clausesJSON, c.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, c)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, c.ID, result.ID)
	assert.Equal(t, "msa.pdf", result.OriginalName)
	assert.Equal(t, c.Clauses, result.Clauses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContractPostgres_CreateNilClauses(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO contracts").
		WithArgs("id", "id.txt", nil, "contracts/id.txt", int64(4), "text/plain", []byte(`[]`), now).
		WillReturnRows(sqlmock.NewRows(contractCols).
			AddRow("id", "id.txt", nil, "contracts/id.txt", 4, "text/plain", []byte(`[]`), now))

	result, err := NewContractPostgres(db).Create(context.Background(), &model.Contract{
		ID: "id", Filename: "id.txt", StoragePath: "contracts/id.txt", Size: 4, ContentType: "text/plain", CreatedAt: now,
	})

	assert.NoError(t, err)
	assert.Equal(t, "", result.OriginalName)
	assert.Equal(t, []model.Clause{}, result.Clauses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContractPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewContractPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(contractCols).
			AddRow("test-id", "test-id.txt", "nda.txt", "contracts/test-id.txt", 100, "text/plain", []byte(`[]`), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM contracts WHERE id = ?").
			WithArgs("test-id").
			WillReturnRows(rows)

		c, err := repo.FindByID(ctx, "test-id")

		assert.NoError(t, err)
		assert.NotNil(t, c)
		assert.Equal(t, "test-id", c.ID)
		assert.Equal(t, "nda.txt", c.OriginalName)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM contracts WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		c, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, c)
	})

	t.Run("corrupt clauses", func(t *testing.T) {
		rows := sqlmock.NewRows(contractCols).
			AddRow("bad", "bad.txt", nil, "contracts/bad.txt", 1, "text/plain", []byte(`{`), time.Now())
		mock.ExpectQuery("SELECT (.+) FROM contracts WHERE id = ?").
			WithArgs("bad").
			WillReturnRows(rows)

		_, err := repo.FindByID(ctx, "bad")
		assert.ErrorContains(t, err, "decode clauses of bad")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContractPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewContractPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM contracts").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows(contractCols).
			AddRow("test-id", "test-id.txt", "a.txt", "contracts/test-id.txt", 100, "text/plain",
				[]byte(`[{"clause":"Term","description":"1 year"}]`), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM contracts ORDER BY").
			WithArgs(10, 0).
			WillReturnRows(rows)

		res, err := repo.List(ctx, repository.PageQuery{Limit: 10, Offset: 0})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Len(t, res.Items, 1)
		assert.Equal(t, "Term", res.Items[0].Clauses[0].Clause)
	})

	t.Run("count fails", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM contracts").
			WillReturnError(errors.New("connection reset"))

		_, err := repo.List(ctx, repository.PageQuery{Limit: 10})
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContractPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM contracts WHERE id = ?").
		WithArgs("test-id").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewContractPostgres(db).Delete(context.Background(), "test-id")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContractPostgres_SaveAnalysis(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	now := time.Now().UTC()
	a := &model.ContractAnalysis{
		ID:                "an-1",
		ContractID:        "c-1",
		Report:            model.Report{Score: 80, ComplianceLevel: model.LevelHigh, Strengths: []string{"clear"}},
		SimilarDocumentID: "doc_3",
		CreatedAt:         now,
	}
	reportJSON := []byte(`{"Score":80,"Compliance_Level":"High","Strengths":["clear"],"Improvement_Areas":null,"Legal_Risks":null,"Recommendations":null,"Similar_Contract_Analysis":""}`)

	mock.ExpectQuery("INSERT INTO contract_analyses").
		WithArgs("an-1", "c-1", reportJSON, "doc_3", now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "contract_id", "report", "similar_document_id", "created_at"}).
			AddRow("an-1", "c-1", reportJSON, "doc_3", now))

	out, err := NewContractPostgres(db).SaveAnalysis(context.Background(), a)

	assert.NoError(t, err)
	assert.Equal(t, 80, out.Report.Score)
	assert.Equal(t, "doc_3", out.SimilarDocumentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContractPostgres_LatestAnalysis(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewContractPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM contract_analyses WHERE contract_id = (.+) ORDER BY created_at DESC").
			WithArgs("c-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "contract_id", "report", "similar_document_id", "created_at"}).
				AddRow("an-2", "c-1", []byte(`{"Score":55,"Compliance_Level":"Medium"}`), nil, time.Now()))

		a, err := repo.LatestAnalysis(ctx, "c-1")
		assert.NoError(t, err)
		assert.Equal(t, "an-2", a.ID)
		assert.Equal(t, model.LevelMedium, a.Report.ComplianceLevel)
		assert.Equal(t, "", a.SimilarDocumentID)
	})

	t.Run("none", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM contract_analyses").
			WithArgs("c-2").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.LatestAnalysis(ctx, "c-2")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
