package repository

import (
	"context"
	"time"

	"jobfair-booking/internal/domain/company"
	"jobfair-booking/internal/infra"
	"jobfair-booking/internal/infra/db"
	"jobfair-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type CompanyRepository struct {
	db db.DBTX
}

func NewCompanyRepository(dbtx db.DBTX) *CompanyRepository {
	return &CompanyRepository{db: dbtx}
}

func (r *CompanyRepository) Create(ctx context.Context, c *company.Company) error {
	const q = `
		INSERT INTO companies (id, name, description, address, tel, website)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, q,
		pgconv.UUIDToPgtype(c.ID()),
		c.Name(),
		c.Description(),
		c.Address(),
		c.Tel(),
		c.Website(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create company", err)
	}
	return nil
}

func (r *CompanyRepository) UpdateProfile(ctx context.Context, c *company.Company) error {
	const q = `
		UPDATE companies
		SET name = $2, description = $3, address = $4, tel = $5, website = $6, updated_at = now()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, q,
		pgconv.UUIDToPgtype(c.ID()),
		c.Name(),
		c.Description(),
		c.Address(),
		c.Tel(),
		c.Website(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update company", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("company not found", nil, infra.KindNotFound)
	}
	return nil
}

// Delete removes the company row; company_slots rows go with it through
// the ON DELETE CASCADE on the ledger table.
func (r *CompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM companies WHERE id = $1`
	tag, err := r.db.Exec(ctx, q, pgconv.UUIDToPgtype(id))
	if err != nil {
		return infra.WrapRepoErr("failed to delete company", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("company not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CompanyRepository) AddReservation(ctx context.Context, companyID uuid.UUID, date time.Time, slotID string) error {
	const q = `
		INSERT INTO company_slots (company_id, slot_date, time_slot)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.Exec(ctx, q,
		pgconv.UUIDToPgtype(companyID),
		pgconv.DateToPgtype(date),
		slotID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to reserve slot", err)
	}
	return nil
}

func (r *CompanyRepository) RemoveReservation(ctx context.Context, companyID uuid.UUID, date time.Time, slotID string) error {
	const q = `
		DELETE FROM company_slots
		WHERE company_id = $1 AND slot_date = $2 AND time_slot = $3
	`
	_, err := r.db.Exec(ctx, q,
		pgconv.UUIDToPgtype(companyID),
		pgconv.DateToPgtype(date),
		slotID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to release slot", err)
	}
	return nil
}
