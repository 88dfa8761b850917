package repository

import (
	"context"

	"jobfair-booking/internal/domain/user"
	"jobfair-booking/internal/infra"
	"jobfair-booking/internal/infra/db"
	"jobfair-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type UserRepository struct {
	db db.DBTX
}

func NewUserRepository(dbtx db.DBTX) *UserRepository {
	return &UserRepository{db: dbtx}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	const q = `
		INSERT INTO users (id, name, email, tel, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, q,
		pgconv.UUIDToPgtype(u.ID()),
		u.Name(),
		u.Email().Value(),
		u.Tel().Value(),
		u.PasswordHash(),
		u.Role().String(),
		u.IsActive(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create user", err)
	}
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *user.User) error {
	const q = `
		UPDATE users
		SET name = $2, tel = $3, updated_at = now()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, q,
		pgconv.UUIDToPgtype(u.ID()),
		u.Name(),
		u.Tel().Value(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update user profile", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	const q = `UPDATE users SET last_login = now() WHERE id = $1`
	_, err := r.db.Exec(ctx, q, pgconv.UUIDToPgtype(userID))
	if err != nil {
		return infra.WrapRepoErr("failed to record login", err)
	}
	return nil
}
