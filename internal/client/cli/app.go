package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/plasticoslc/console/internal/client/claims"
	"github.com/plasticoslc/console/internal/client/client"
	"github.com/plasticoslc/console/internal/client/config"
	"github.com/plasticoslc/console/internal/client/services"
	"github.com/plasticoslc/console/internal/client/session"
	"github.com/plasticoslc/console/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pingTimeout bounds one reachability probe of the watcher.
const pingTimeout = 3 * time.Second

type App struct {
	config  *config.Config
	log     logging.Logger
	api     client.Client
	session *session.Store
	claims  *claims.Decoder
	records services.RecordService
	reports services.ReportService
	closer  io.Closer

	modeMu sync.RWMutex
	mode   Mode

	reader *bufio.Reader
	out    io.Writer
}

// NewApp wires storage, the API client, the session store and the services.
// The session is not resumed yet; Run does that.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	repos, err := client.OpenRepositories(ctx, client.StorageOptions{
		DatabaseDSN:    c.DatabaseDSN,
		RedisURL:       c.RedisURL,
		EphemeralToken: c.EphemeralToken,
		TransientTTL:   c.TransientTTL,
	})
	if err != nil {
		log.Error(ctx, "error initializing storage", "error", err)
		return nil, err
	}

	api, err := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, client.WithLogger(log.With("component", "api")))
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	decoder := claims.NewDecoder(log)
	store := session.NewStore(api, repos.Transient, repos.Durable, decoder, log,
		session.WithLoginTimeout(2*c.RequestTimeout))

	return &App{
		config:  c,
		log:     log,
		api:     api,
		session: store,
		claims:  decoder,
		records: services.NewRecordService(api, store, log),
		reports: services.NewReportService(api, store, c.ReportsDir, log),
		closer:  repos,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Run resumes the session, starts the connectivity watcher and blocks in
// the REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.closer != nil {
			if err := a.closer.Close(); err != nil {
				a.log.Warn(ctx, "closing storage", "error", err)
			}
		}
	}()

	a.session.Resume(ctx)
	a.checkOnline(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) Mode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.log.Info(context.Background(), fmt.Sprintf("Switched to %s mode", mode))
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := a.api.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher probes the API every interval and flips the mode
// shown in the prompt. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
