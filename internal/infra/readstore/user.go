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

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(dbtx db.DBTX) *UserReadStore {
	return &UserReadStore{db: dbtx}
}

func (s *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	const q = `
		SELECT id, name, email, tel, role, is_active
		FROM users
		WHERE id = $1
	`
	var (
		view queries.AuthorizedUserView
		uid  pgtype.UUID
	)
	err := s.db.QueryRow(ctx, q, pgconv.UUIDToPgtype(id)).
		Scan(&uid, &view.Name, &view.Email, &view.Tel, &view.Role, &view.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user", err)
	}
	view.ID = uuid.UUID(uid.Bytes)
	return &view, nil
}

func (s *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	const q = `
		SELECT id, name, email, tel, role, is_active, password_hash
		FROM users
		WHERE email = $1
	`
	var (
		view queries.AuthorizedUserView
		uid  pgtype.UUID
		hash string
	)
	err := s.db.QueryRow(ctx, q, email).
		Scan(&uid, &view.Name, &view.Email, &view.Tel, &view.Role, &view.IsActive, &hash)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}
	view.ID = uuid.UUID(uid.Bytes)
	return &view, hash, nil
}
