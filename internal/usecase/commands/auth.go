package commands

import (
	"context"
	"strings"
	"time"

	"jobfair-booking/internal/domain/user"
	"jobfair-booking/internal/infra"
	"jobfair-booking/internal/pkg/errs"
	"jobfair-booking/internal/pkg/jwt"
	"jobfair-booking/internal/pkg/password"
	"jobfair-booking/internal/pkg/patch"
	"jobfair-booking/internal/usecase/queries"
	"jobfair-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type RegisterParams struct {
	Name     string
	Email    string
	Tel      string
	Password string
}

type UpdateProfileParams struct {
	Name *string
	Tel  *string
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthCommands interface {
	Register(ctx context.Context, params RegisterParams) (*queries.AuthorizedUserView, error)
	Login(ctx context.Context, email, rawPassword string) (*queries.AuthorizedUserView, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, params UpdateProfileParams) (*queries.AuthorizedUserView, error)
}

type authCommandsImpl struct {
	uow       shared.UnitOfWork
	userStore queries.UserReadStore
	jwtSvc    *jwt.Service
}

func NewAuthCommands(uow shared.UnitOfWork, userStore queries.UserReadStore, jwtSvc *jwt.Service) AuthCommands {
	return &authCommandsImpl{uow: uow, userStore: userStore, jwtSvc: jwtSvc}
}

func (c *authCommandsImpl) Register(ctx context.Context, params RegisterParams) (*queries.AuthorizedUserView, error) {
	email, err := user.NewEmail(params.Email)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	tel, err := user.NewTel(params.Tel)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	if _, err := user.NewPassword(params.Password); err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	hash, err := password.HashPassword(params.Password)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	entity, err := user.NewUser(params.Name, email, tel, hash, user.RoleUser)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Users().Create(ctx, entity); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.ErrEmailTaken
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c.userStore.FindByID(ctx, entity.ID())
}

func (c *authCommandsImpl) Login(ctx context.Context, email, rawPassword string) (*queries.AuthorizedUserView, *TokenPair, error) {
	view, hash, err := c.userStore.FindByEmail(ctx, email)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, errs.ErrInvalidCredentials
		}
		return nil, nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !view.IsActive {
		return nil, nil, errs.ErrInvalidCredentials
	}
	if err := password.ComparePassword(hash, rawPassword); err != nil {
		return nil, nil, errs.ErrInvalidCredentials
	}

	role, err := user.NewRole(view.Role)
	if err != nil {
		return nil, nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	pair, err := c.issueTokens(view.ID, role)
	if err != nil {
		return nil, nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().UpdateLastLogin(ctx, view.ID)
	})
	if err != nil {
		return nil, nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return view, pair, nil
}

func (c *authCommandsImpl) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := c.jwtSvc.ValidateToken(refreshToken)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidCredentials)
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, errs.ErrInvalidCredentials
	}

	// Re-read the user so a deactivated account cannot keep rotating
	// tokens on an old refresh token.
	view, err := c.userStore.FindByID(ctx, claims.UserID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrInvalidCredentials
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !view.IsActive {
		return nil, errs.ErrInvalidCredentials
	}

	role, err := user.NewRole(view.Role)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return c.issueTokens(view.ID, role)
}

func (c *authCommandsImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, params UpdateProfileParams) (*queries.AuthorizedUserView, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().UserByID(ctx, userID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrUserNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		name := patch.Coalesce(params.Name, snap.Name)
		telRaw := patch.Coalesce(params.Tel, snap.Tel)

		email, err := user.NewEmail(snap.Email)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		tel, err := user.NewTel(telRaw)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}
		role, err := user.NewRole(snap.Role)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if strings.TrimSpace(name) == "" {
			return errs.Mark(user.ErrInvalidName, errs.ErrDomainValidation)
		}
		entity := user.ReconstructUser(
			snap.ID, strings.TrimSpace(name), email, tel,
			"", role, nil, snap.IsActive,
			time.Time{}, time.Time{},
		)

		if err := tx.Users().UpdateProfile(ctx, entity); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c.userStore.FindByID(ctx, userID)
}

func (c *authCommandsImpl) issueTokens(userID uuid.UUID, role user.Role) (*TokenPair, error) {
	access, err := c.jwtSvc.GenerateAccessToken(userID, role)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	refresh, err := c.jwtSvc.GenerateRefreshToken(userID, role)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
