// Package admin implements the operator CLI that bootstraps and audits the
// administrator account, hashes secrets and applies migrations.
package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/gophmember/internal/common"
	"github.com/dmitrijs2005/gophmember/internal/cryptox"
	"github.com/dmitrijs2005/gophmember/internal/logging"
	"github.com/dmitrijs2005/gophmember/internal/server/config"
	"github.com/dmitrijs2005/gophmember/internal/server/models"
	"github.com/dmitrijs2005/gophmember/internal/server/services"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

const usage = `usage: gophmember-admin <command> [flags]

commands:
  setup    create or repair the configured admin account, then verify it
  verify   check the configured admin account without changing anything
  hash     print a credential hash for the admin secret
  init     apply database migrations, then optionally run setup (-y to skip the prompt)

config flags: -d dsn, -n admin name, -m admin email, -p admin password, -env file, -c config.json
`

type App struct {
	cfg     *config.Config
	connect Connector
	hasher  cryptox.Hasher
	secrets SecretReader
	confirm Confirmer
	out     io.Writer
	logger  logging.Logger
}

func NewApp(cfg *config.Config, connect Connector, h cryptox.Hasher, sr SecretReader, c Confirmer, out io.Writer, l logging.Logger) *App {
	return &App{
		cfg:     cfg,
		connect: connect,
		hasher:  h,
		secrets: sr,
		confirm: c,
		out:     out,
		logger:  l.With("module", "admin"),
	}
}

// Run executes the command named by args[0] and returns the process exit
// code. Remaining args may carry -y/--yes for init.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ExitUsage
	}

	cmd, rest := args[0], args[1:]

	var err error
	code := ExitOK

	switch cmd {
	case "setup":
		code, err = a.withBackend(ctx, a.setup)
	case "verify":
		code, err = a.withBackend(ctx, a.verify)
	case "hash":
		code, err = a.hash()
	case "init":
		yes := hasFlag(rest, "-y", "--yes")
		code, err = a.withBackend(ctx, func(ctx context.Context, b *Backend) (int, error) {
			return a.init(ctx, b, yes)
		})
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return ExitOK
	default:
		fmt.Fprintf(a.out, "unknown command %q\n\n%s", cmd, usage)
		return ExitUsage
	}

	if err != nil {
		a.logger.Error(ctx, "command failed", "command", cmd, "error", err)
		fmt.Fprintf(a.out, "error: %s\n", describe(err))
		return ExitFailure
	}
	return code
}

func (a *App) withBackend(ctx context.Context, fn func(context.Context, *Backend) (int, error)) (int, error) {
	b, err := a.connect(ctx)
	if err != nil {
		return ExitFailure, fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
	}
	defer func() {
		if b.Close != nil {
			_ = b.Close()
		}
	}()
	return fn(ctx, b)
}

func (a *App) setup(ctx context.Context, b *Backend) (int, error) {
	secret, err := a.adminSecret()
	if err != nil {
		return ExitFailure, err
	}

	res, err := b.Accounts.EnsureAdmin(ctx, services.AdminSpec{
		DisplayName: a.cfg.AdminName,
		Email:       a.cfg.AdminEmail,
		Secret:      secret,
	})
	if err != nil {
		return ExitFailure, err
	}

	fmt.Fprintf(a.out, "admin account %s: %s (id %s)\n", res.Action, res.Account.Email, res.Account.ID)

	report, err := b.Accounts.VerifyBootstrap(ctx, a.cfg.AdminEmail, secret)
	if err != nil {
		return ExitFailure, err
	}
	a.printReport(report)

	if !report.OK() {
		fmt.Fprintln(a.out, "verification failed after setup")
		return ExitFailure, nil
	}
	return ExitOK, nil
}

func (a *App) verify(ctx context.Context, b *Backend) (int, error) {
	secret, err := a.adminSecret()
	if err != nil {
		return ExitFailure, err
	}

	report, err := b.Accounts.VerifyBootstrap(ctx, a.cfg.AdminEmail, secret)
	if err != nil {
		return ExitFailure, err
	}
	a.printReport(report)

	if !report.OK() {
		fmt.Fprintln(a.out, "admin account is not ready; run `gophmember-admin setup` to fix it")
		return ExitFailure, nil
	}
	fmt.Fprintln(a.out, "admin account is ready")
	return ExitOK, nil
}

func (a *App) hash() (int, error) {
	secret, err := a.adminSecret()
	if err != nil {
		return ExitFailure, err
	}

	h, err := a.hasher.Hash(secret)
	if err != nil {
		return ExitFailure, err
	}

	fmt.Fprintln(a.out, h)

	if !a.hasher.Verify(secret, h) {
		fmt.Fprintln(a.out, "verification: FAILED")
		return ExitFailure, nil
	}
	fmt.Fprintln(a.out, "verification: ok")
	return ExitOK, nil
}

func (a *App) init(ctx context.Context, b *Backend, yes bool) (int, error) {
	if err := b.Migrate(ctx); err != nil {
		return ExitFailure, fmt.Errorf("migrations: %w", err)
	}
	fmt.Fprintln(a.out, "migrations applied")

	if !yes {
		ok, err := a.confirm.Confirm(fmt.Sprintf("Create or repair admin account %s now?", a.cfg.AdminEmail))
		if err != nil {
			return ExitFailure, err
		}
		if !ok {
			fmt.Fprintln(a.out, "admin setup skipped")
			return ExitOK, nil
		}
	}

	return a.setup(ctx, b)
}

func (a *App) adminSecret() (string, error) {
	if a.cfg.AdminSecret != "" {
		return a.cfg.AdminSecret, nil
	}
	s, err := a.secrets.ReadSecret("Admin password: ")
	if err != nil {
		return "", fmt.Errorf("read admin password: %w", err)
	}
	if s == "" {
		return "", fmt.Errorf("%w: admin password is empty", common.ErrValidation)
	}
	return s, nil
}

func (a *App) printReport(r *models.BootstrapReport) {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "email\t%s\n", r.Email)
	fmt.Fprintf(w, "exists\t%t\n", r.Exists)
	if r.Exists {
		fmt.Fprintf(w, "id\t%s\n", r.AccountID)
		fmt.Fprintf(w, "name\t%s\n", r.DisplayName)
		fmt.Fprintf(w, "created\t%s\n", r.CreatedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "admin\t%t\n", r.IsAdmin)
	fmt.Fprintf(w, "active\t%t\n", r.IsActive)
	fmt.Fprintf(w, "credential\t%t\n", r.HasCredential)
	fmt.Fprintf(w, "authenticates\t%t\n", r.Authenticates)
	_ = w.Flush()
}

// describe turns provisioning errors into operator-facing text.
func describe(err error) string {
	if errors.Is(err, common.ErrStoreUnavailable) {
		return "database unavailable: " + err.Error()
	}
	return err.Error()
}

func hasFlag(args []string, names ...string) bool {
	for _, arg := range args {
		for _, n := range names {
			if strings.EqualFold(arg, n) {
				return true
			}
		}
	}
	return false
}
