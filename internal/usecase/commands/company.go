package commands

import (
	"context"

	"jobfair-booking/internal/domain/company"
	"jobfair-booking/internal/infra"
	"jobfair-booking/internal/pkg/errs"
	"jobfair-booking/internal/usecase/queries"
	"jobfair-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type CompanyParams struct {
	Name        string
	Description string
	Address     string
	Tel         string
	Website     string
}

type CompanyCommands interface {
	Create(ctx context.Context, params CompanyParams) (*queries.CompanyView, error)
	Update(ctx context.Context, companyID uuid.UUID, params CompanyParams) (*queries.CompanyView, error)
	Delete(ctx context.Context, companyID uuid.UUID) error
}

type companyCommandsImpl struct {
	uow            shared.UnitOfWork
	companyQueries queries.CompanyQueries
}

func NewCompanyCommands(uow shared.UnitOfWork, companyQueries queries.CompanyQueries) CompanyCommands {
	return &companyCommandsImpl{uow: uow, companyQueries: companyQueries}
}

func (c *companyCommandsImpl) Create(ctx context.Context, params CompanyParams) (*queries.CompanyView, error) {
	entity, err := company.NewCompany(params.Name, params.Description, params.Address, params.Tel, params.Website)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Companies().Create(ctx, entity); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.ErrCompanyNameTaken
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c.companyQueries.GetByID(ctx, entity.ID())
}

func (c *companyCommandsImpl) Update(ctx context.Context, companyID uuid.UUID, params CompanyParams) (*queries.CompanyView, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().CompanyByID(ctx, companyID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrCompanyNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		entity := company.ReconstructCompany(
			snap.ID, snap.Name, snap.Description, snap.Address, snap.Tel, snap.Website,
			snap.CreatedAt, snap.UpdatedAt,
		)
		if err := entity.UpdateProfile(params.Name, params.Description, params.Address, params.Tel, params.Website); err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		if err := tx.Companies().UpdateProfile(ctx, entity); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.ErrCompanyNameTaken
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c.companyQueries.GetByID(ctx, companyID)
}

// Delete removes the company together with every dependent booking and
// ledger entry. One transaction: readers never observe a booking whose
// company is gone.
func (c *companyCommandsImpl) Delete(ctx context.Context, companyID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Reads().CompanyByID(ctx, companyID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrCompanyNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if _, err := tx.Bookings().DeleteByCompany(ctx, companyID); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Companies().Delete(ctx, companyID); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}
