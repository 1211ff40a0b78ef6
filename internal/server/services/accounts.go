// Package services contains server-side business logic. This file implements
// AccountService, which provisions accounts through self-service registration
// and the idempotent administrator bootstrap.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophmember/internal/common"
	"github.com/dmitrijs2005/gophmember/internal/cryptox"
	"github.com/dmitrijs2005/gophmember/internal/dbx"
	"github.com/dmitrijs2005/gophmember/internal/logging"
	"github.com/dmitrijs2005/gophmember/internal/server/config"
	"github.com/dmitrijs2005/gophmember/internal/server/events"
	"github.com/dmitrijs2005/gophmember/internal/server/models"
	"github.com/dmitrijs2005/gophmember/internal/server/repositories/repomanager"
)

// ServiceConfig holds the knobs AccountService needs from server config.
type ServiceConfig struct {
	StoreTimeout                time.Duration
	SecretLength                int
	JWTSecret                   []byte
	AccessTokenValidityDuration time.Duration
}

// ServiceConfigFrom extracts the service settings from the loaded config.
func ServiceConfigFrom(cfg *config.Config) ServiceConfig {
	return ServiceConfig{
		StoreTimeout:                cfg.StoreTimeout,
		SecretLength:                common.DefaultSecretLength,
		JWTSecret:                   []byte(cfg.SecretKey),
		AccessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// RegistrationResult is returned to the immediate caller of Register only.
// OneTimeSecret is never persisted.
type RegistrationResult struct {
	Account       *models.Account
	OneTimeSecret string
}

// AdminSpec is the configuration-declared administrator.
type AdminSpec struct {
	DisplayName string
	Email       string
	Secret      string
}

type EnsureAction string

const (
	ActionCreated   EnsureAction = "created"
	ActionUpdated   EnsureAction = "updated"
	ActionUnchanged EnsureAction = "unchanged"
)

type EnsureAdminResult struct {
	Account *models.Account
	Action  EnsureAction
}

// AccountService provides account provisioning and verification:
// - Register: self-service creation with a generated one-time secret
// - EnsureAdmin: converge the configured administrator into the store
// - Authenticate / VerifyBootstrap / Login: read-only credential checks
// - Stats: counts of regular members
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      cryptox.Hasher
	events      events.Submitter
	logger      logging.Logger
	cfg         ServiceConfig
	now         func() time.Time
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, h cryptox.Hasher,
	ev events.Submitter, l logging.Logger, cfg ServiceConfig) *AccountService {
	if cfg.SecretLength <= 0 {
		cfg.SecretLength = common.DefaultSecretLength
	}
	return &AccountService{
		db:          db,
		repomanager: m,
		hasher:      h,
		events:      ev,
		logger:      l.With("module", "accounts"),
		cfg:         cfg,
		now:         time.Now,
	}
}

// Register creates a regular member for email. An existing account under
// the normalized email yields common.ErrDuplicateAccount and is left as is.
func (s *AccountService) Register(ctx context.Context, displayName, email string) (*RegistrationResult, error) {
	in := registration{DisplayName: models.NormalizeDisplayName(displayName), Email: models.NormalizeEmail(email)}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrValidation, err)
	}

	secret, err := common.GenerateSecret(s.cfg.SecretLength)
	if err != nil {
		return nil, fmt.Errorf("%w: generate secret: %w", common.ErrProvisioningFailed, err)
	}
	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: hash secret: %w", common.ErrProvisioningFailed, err)
	}

	ctx, cancel := dbx.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()

	var created *models.Account
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		_, err := repo.FindByEmail(ctx, in.Email)
		switch {
		case err == nil:
			return common.ErrDuplicateAccount
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		created, err = repo.Create(ctx, &models.Account{
			DisplayName:    in.DisplayName,
			Email:          in.Email,
			CredentialHash: &hash,
			IsActive:       true,
		})
		return err
	})
	if err != nil {
		err = classify(err)
		s.logFailure(ctx, "registration failed", err, "email", in.Email)
		return nil, err
	}

	s.logger.Info(ctx, "account registered", "account_id", created.ID, "email", created.Email)

	s.events.Submit(events.NewAccountEvent{
		AccountID:     created.ID,
		Email:         created.Email,
		DisplayName:   created.DisplayName,
		OneTimeSecret: secret,
	})

	return &RegistrationResult{Account: created, OneTimeSecret: secret}, nil
}

// EnsureAdmin makes sure an active administrator exists at spec.Email whose
// credential is spec.Secret. Re-running it with the same spec performs no
// write.
func (s *AccountService) EnsureAdmin(ctx context.Context, spec AdminSpec) (*EnsureAdminResult, error) {
	in := adminInput{
		DisplayName: models.NormalizeDisplayName(spec.DisplayName),
		Email:       models.NormalizeEmail(spec.Email),
		Secret:      spec.Secret,
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrValidation, err)
	}

	ctx, cancel := dbx.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()

	res, err := s.ensureAdmin(ctx, in)
	if errors.Is(err, common.ErrUniqueViolation) {
		// lost the insert race to a concurrent bootstrap; the row exists now
		res, err = s.ensureAdmin(ctx, in)
	}
	if err != nil {
		err = classify(err)
		s.logFailure(ctx, "admin bootstrap failed", err, "email", in.Email)
		return nil, err
	}

	s.logger.Info(ctx, "admin bootstrap", "action", string(res.Action), "account_id", res.Account.ID)

	return res, nil
}

func (s *AccountService) ensureAdmin(ctx context.Context, in adminInput) (*EnsureAdminResult, error) {
	var res *EnsureAdminResult
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		existing, err := repo.FindByEmailForUpdate(ctx, in.Email)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		if existing != nil && s.adminConverged(existing, in.Secret) {
			res = &EnsureAdminResult{Account: existing, Action: ActionUnchanged}
			return nil
		}

		hash, err := s.hasher.Hash(in.Secret)
		if err != nil {
			if errors.Is(err, common.ErrSecretTooLong) {
				return fmt.Errorf("%w: %w", common.ErrValidation, err)
			}
			return err
		}

		if existing == nil {
			a, err := repo.Create(ctx, &models.Account{
				DisplayName:    in.DisplayName,
				Email:          in.Email,
				CredentialHash: &hash,
				IsActive:       true,
				IsAdmin:        true,
			})
			if err != nil {
				return err
			}
			res = &EnsureAdminResult{Account: a, Action: ActionCreated}
			return nil
		}

		existing.DisplayName = in.DisplayName
		existing.CredentialHash = &hash
		existing.IsAdmin = true
		existing.IsActive = true

		a, err := repo.Update(ctx, existing)
		if err != nil {
			return err
		}
		res = &EnsureAdminResult{Account: a, Action: ActionUpdated}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *AccountService) adminConverged(a *models.Account, secret string) bool {
	if !a.IsAdmin || !a.IsActive || !a.HasCredential() {
		return false
	}
	if !s.hasher.Verify(secret, *a.CredentialHash) {
		return false
	}
	return !s.hasher.NeedsRehash(*a.CredentialHash)
}

// classify maps store and tx errors to the provisioning taxonomy.
func classify(err error) error {
	switch {
	case errors.Is(err, common.ErrDuplicateAccount),
		errors.Is(err, common.ErrValidation),
		errors.Is(err, common.ErrStoreUnavailable),
		errors.Is(err, common.ErrProvisioningFailed):
		return err
	case errors.Is(err, common.ErrUniqueViolation):
		return fmt.Errorf("%w: %w", common.ErrDuplicateAccount, err)
	case dbx.IsUnavailable(err):
		return fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("%w: %w", common.ErrProvisioningFailed, err)
	}
}

func (s *AccountService) logFailure(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, "error", err)
	switch {
	case errors.Is(err, common.ErrDuplicateAccount), errors.Is(err, common.ErrValidation):
		s.logger.Info(ctx, msg, args...)
	case errors.Is(err, common.ErrStoreUnavailable):
		s.logger.Warn(ctx, msg, args...)
	default:
		s.logger.Error(ctx, msg, args...)
	}
}
