package readstore

import (
	"context"

	"jobfair-booking/internal/infra"
	"jobfair-booking/internal/infra/db"
	"jobfair-booking/internal/pkg/pgconv"
	"jobfair-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CompanyReadStore struct {
	db db.DBTX
}

func NewCompanyReadStore(dbtx db.DBTX) *CompanyReadStore {
	return &CompanyReadStore{db: dbtx}
}

func (s *CompanyReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.CompanyView, error) {
	const q = `
		SELECT id, name, description, address, tel, website, created_at, updated_at
		FROM companies
		WHERE id = $1
	`
	view, err := scanCompany(s.db.QueryRow(ctx, q, pgconv.UUIDToPgtype(id)))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("company not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find company", err)
	}
	return view, nil
}

// List orders by name or created_at; anything unrecognized falls back to
// name so a raw query value never reaches the SQL text.
func (s *CompanyReadStore) List(ctx context.Context, limit, offset int32, sort string) ([]*queries.CompanyView, error) {
	orderBy := "name"
	if sort == "created_at" {
		orderBy = "created_at DESC"
	}

	q := `
		SELECT id, name, description, address, tel, website, created_at, updated_at
		FROM companies
		ORDER BY ` + orderBy + `
		LIMIT $1 OFFSET $2
	`
	rows, err := s.db.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list companies", err)
	}
	defer rows.Close()

	var views []*queries.CompanyView
	for rows.Next() {
		view, err := scanCompany(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan company row", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read company rows", err)
	}
	return views, nil
}

func (s *CompanyReadStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM companies WHERE id = $1)`
	var exists bool
	if err := s.db.QueryRow(ctx, q, pgconv.UUIDToPgtype(id)).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check company existence", err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*queries.CompanyView, error) {
	var (
		view                 queries.CompanyView
		id                   pgtype.UUID
		createdAt, updatedAt pgtype.Timestamptz
	)
	err := row.Scan(&id, &view.Name, &view.Description, &view.Address, &view.Tel, &view.Website, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	view.ID = uuid.UUID(id.Bytes)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}
