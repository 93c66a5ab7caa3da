package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/artefacto/internal/client/client"
	"github.com/dmitrijs2005/artefacto/internal/client/config"
	"github.com/dmitrijs2005/artefacto/internal/client/guard"
	"github.com/dmitrijs2005/artefacto/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/artefacto/internal/client/services"
	"github.com/dmitrijs2005/artefacto/internal/client/session"
	"github.com/dmitrijs2005/artefacto/internal/client/tokenstore"
	"github.com/dmitrijs2005/artefacto/internal/filex"
	"github.com/dmitrijs2005/artefacto/internal/logging"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	state   *session.State
	auth    services.AuthService
	catalog services.CatalogService
	admin   services.AdminService
	scan    services.ScanService
	reader  *bufio.Reader
	out     io.Writer
	db      *sql.DB
	pages   map[string]page

	mu       sync.Mutex
	path     string
	returnTo string
}

// Services bundles what the App drives. NewApp builds the real ones.
type Services struct {
	State   *session.State
	Auth    services.AuthService
	Catalog services.CatalogService
	Admin   services.AdminService
	Scan    services.ScanService
}

// NewApp opens the local session database and wires the REST client and
// services. When the database file cannot be used the session is kept in
// memory for this run only.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	if err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		logger.Warn(ctx, "cannot create database directory", "path", c.DatabasePath, "error", err)
	}

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Warn(ctx, "local database unavailable, session will not survive a restart", "path", c.DatabasePath, "error", err)
		if db, err = client.InitDatabase(ctx, ":memory:"); err != nil {
			logger.Error(ctx, "in-memory database unavailable, session storage disabled", "error", err)
			db = nil
		}
	}

	store := tokenstore.New(db, logger)

	api, err := client.New(c.APIBaseURL, client.Options{
		Timeout:   c.RequestTimeout,
		MLBaseURL: c.MLBaseURL,
		Tokens:    store,
		Logger:    logger,
	})
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}

	var reading metadata.Repository
	if db != nil {
		reading = metadata.NewSQLiteRepository(db)
	}

	state := session.NewState()
	auth := services.NewAuthService(api, store, state, logger)
	api.OnUnauthorized(auth.HandleUnauthorized)

	a := newApp(c, logger, Services{
		State:   state,
		Auth:    auth,
		Catalog: services.NewCatalogService(api, reading, logger),
		Admin:   services.NewAdminService(api, logger),
		Scan:    services.NewScanService(api, logger),
	}, bufio.NewReader(os.Stdin), os.Stdout)
	a.db = db
	return a, nil
}

func newApp(c *config.Config, logger logging.Logger, s Services, reader *bufio.Reader, out io.Writer) *App {
	a := &App{
		config:  c,
		logger:  logger,
		state:   s.State,
		auth:    s.Auth,
		catalog: s.Catalog,
		admin:   s.Admin,
		scan:    s.Scan,
		reader:  reader,
		out:     out,
		path:    guard.StartPath,
	}
	a.pages = a.routes()
	a.auth.OnSignOut(a.signedOut)
	return a
}

// signedOut reacts to sessions ending behind the user's back. The next
// command starts from the login page and returns to where the user was.
func (a *App) signedOut(ctx context.Context, reason services.SignOutReason) {
	var msg string
	switch reason {
	case services.SignedOutUnauthorized:
		msg = "Your session has ended. Please log in again."
	case services.SignedOutExpired:
		msg = "Your session has expired. Please log in again."
	default:
		return
	}

	a.mu.Lock()
	if a.path != guard.LoginPath {
		a.returnTo = a.path
	}
	a.path = guard.LoginPath
	a.mu.Unlock()

	a.logger.Info(ctx, "session ended", "reason", reason)
	printlnFn(msg)
}

// Run restores the previous session and runs the REPL until the user
// leaves or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to Artefacto CLI (type 'help' for commands)")

	a.auth.Init(ctx)

	go a.StartExpiryWatcher(ctx, a.config.ExpiryCheckInterval)

	if err := a.Open(ctx, guard.StartPath); err != nil {
		a.report(ctx, err)
	}

	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// StartExpiryWatcher periodically ends the session once the stored
// credential has lapsed.
func (a *App) StartExpiryWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.auth.CheckExpiry(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.state.Snapshot().IsAuthenticated
}

func (a *App) isAdmin() bool {
	return a.state.IsAdmin()
}

func (a *App) currentPath() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.path
}

func (a *App) setPath(p string) {
	a.mu.Lock()
	a.path = p
	a.mu.Unlock()
}

func (a *App) setReturnTo(p string) {
	a.mu.Lock()
	a.returnTo = p
	a.mu.Unlock()
}

func (a *App) takeReturnTo() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	p := a.returnTo
	a.returnTo = ""
	return p
}

func (a *App) status() string {
	s := a.currentPath()
	snap := a.state.Snapshot()
	if snap.IsAuthenticated && snap.Profile != nil {
		s += " " + snap.Profile.Username
		if snap.IsAdmin() {
			s += " [admin]"
		}
	}
	return fmt.Sprintf("(%s)", s)
}

// report shows err to the user and keeps the details in the log.
func (a *App) report(ctx context.Context, err error) {
	a.logger.Debug(ctx, "command failed", "error", err)
	if errors.Is(err, errCancelled) {
		printlnFn("Cancelled")
		return
	}
	if errors.Is(err, client.ErrUnauthorized) {
		// signedOut has already told the user.
		return
	}
	printlnFn("Error:", services.UserMessage(err))
}
