package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophmember/internal/common"
	"github.com/dmitrijs2005/gophmember/internal/dbx"
	"github.com/dmitrijs2005/gophmember/internal/server/auth"
	"github.com/dmitrijs2005/gophmember/internal/server/models"
)

// LoginResult is an access token minted for an authenticated account.
type LoginResult struct {
	Account     *models.Account
	AccessToken string
	ExpiresAt   time.Time
}

// Authenticate checks secret against the account stored under email. A
// missing account, a missing credential, an inactive account and a wrong
// secret all yield (nil, false, nil). Only store failures return an error.
func (s *AccountService) Authenticate(ctx context.Context, email, secret string) (*models.Account, bool, error) {
	email = models.NormalizeEmail(email)

	a, err := s.lookup(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Debug(ctx, "authentication mismatch", "email", email, "reason", "no account")
			return nil, false, nil
		}
		return nil, false, err
	}

	if ok, reason := s.check(a, secret); !ok {
		s.logger.Debug(ctx, "authentication mismatch", "email", email, "reason", reason)
		return nil, false, nil
	}

	return a, true, nil
}

func (s *AccountService) check(a *models.Account, secret string) (bool, string) {
	switch {
	case !a.HasCredential():
		return false, "no credential"
	case !a.IsActive:
		return false, "inactive"
	case !s.hasher.Verify(secret, *a.CredentialHash):
		return false, "wrong secret"
	default:
		return true, ""
	}
}

// VerifyBootstrap audits the account under email without writing anything:
// whether it exists, its flags, and whether expectedSecret authenticates.
func (s *AccountService) VerifyBootstrap(ctx context.Context, email, expectedSecret string) (*models.BootstrapReport, error) {
	email = models.NormalizeEmail(email)
	report := &models.BootstrapReport{Email: email}

	a, err := s.lookup(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return report, nil
		}
		return nil, err
	}

	report.Exists = true
	report.AccountID = a.ID
	report.DisplayName = a.DisplayName
	report.CreatedAt = a.CreatedAt
	report.IsAdmin = a.IsAdmin
	report.IsActive = a.IsActive
	report.HasCredential = a.HasCredential()
	report.Authenticates, _ = s.check(a, expectedSecret)

	return report, nil
}

// Login authenticates and mints an access token carrying the account id
// and admin flag. Any mismatch is common.ErrorUnauthorized.
func (s *AccountService) Login(ctx context.Context, email, secret string) (*LoginResult, error) {
	a, ok, err := s.Authenticate(ctx, email, secret)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(a.ID, a.IsAdmin, s.cfg.JWTSecret, s.cfg.AccessTokenValidityDuration)
	if err != nil {
		s.logger.Error(ctx, "failed to issue access token", "account_id", a.ID, "error", err)
		return nil, common.ErrorInternal
	}

	return &LoginResult{
		Account:     a,
		AccessToken: token,
		ExpiresAt:   s.now().Add(s.cfg.AccessTokenValidityDuration),
	}, nil
}

// Stats counts regular (non-admin) members overall, in the last 24 hours
// and in the last 7 days.
func (s *AccountService) Stats(ctx context.Context) (*models.AccountStats, error) {
	ctx, cancel := dbx.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()

	st, err := s.repomanager.Accounts(s.db).Stats(ctx, s.now())
	if err != nil {
		return nil, readErr(err)
	}
	return st, nil
}

func (s *AccountService) lookup(ctx context.Context, email string) (*models.Account, error) {
	ctx, cancel := dbx.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()

	a, err := s.repomanager.Accounts(s.db).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, readErr(err)
	}
	return a, nil
}

// readErr maps failures of read-only paths: unreachable store stays
// distinguishable, anything else is internal.
func readErr(err error) error {
	switch {
	case errors.Is(err, common.ErrStoreUnavailable):
		return err
	case dbx.IsUnavailable(err):
		return fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
}
