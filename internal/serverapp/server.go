// Package serverapp assembles the HTTP surface: game API, leaderboard
// reads, telemetry and the server-rendered pages.
package serverapp

import (
	"errors"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"idlepost/internal/config"
	"idlepost/internal/httpmw"
	"idlepost/internal/identity"
	"idlepost/internal/leaderboard"
	"idlepost/internal/session"
	"idlepost/internal/telemetry"

	"github.com/a-h/templ"
)

type Options struct {
	Config      *config.Config
	Balance     config.Balance
	Sessions    *session.Manager
	Leaderboard leaderboard.Store
	Telemetry   telemetry.Repository
	Logger      *log.Logger

	// ClickRate throttles /api per player. Zero disables limiting,
	// for tests.
	ClickRate  rate.Limit
	ClickBurst int
}

func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("session manager is required")
	}
	if opts.Leaderboard == nil {
		return nil, errors.New("leaderboard store is required")
	}
	if opts.Telemetry == nil {
		opts.Telemetry = telemetry.NewMemoryRepository()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	api := &apiHandler{
		manager:   opts.Sessions,
		board:     opts.Leaderboard,
		telemetry: opts.Telemetry,
		balance:   opts.Balance,
		limits:    opts.Config.Leaderboard,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "idlepost",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if _, err := opts.Leaderboard.TopN(r.Context(), 1); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "leaderboard storage unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":       true,
			"service":  "idlepost",
			"sessions": opts.Sessions.Live(),
			"time":     time.Now().UTC().Format(time.RFC3339),
		})
	})

	requireAPI := func(h http.HandlerFunc) http.Handler {
		wrapped := identity.Require(h)
		if opts.ClickRate > 0 {
			wrapped = httpmw.WithRateLimit(opts.ClickRate, opts.ClickBurst)(wrapped)
		}
		return wrapped
	}

	mux.Handle("/api/state", requireAPI(api.State))
	mux.Handle("/api/click", requireAPI(api.Click))
	mux.Handle("/api/upgrade", requireAPI(api.Upgrade))
	mux.Handle("/api/shop", requireAPI(api.Shop))
	mux.Handle("/api/settings", requireAPI(api.Settings))
	mux.Handle("/api/achievements/viewed", requireAPI(api.AchievementsViewed))
	mux.Handle("/api/resume", requireAPI(api.Resume))
	mux.Handle("/api/reset", requireAPI(api.Reset))
	mux.Handle("/api/rank", requireAPI(api.Rank))

	// Board reads and telemetry need no player identity.
	mux.HandleFunc("/api/leaderboard", api.Leaderboard)
	mux.HandleFunc("/api/telemetry/stats", api.TelemetryStats)

	mux.Handle("/", templ.Handler(homePage()))
	mux.HandleFunc("/board", func(w http.ResponseWriter, r *http.Request) {
		rows, err := opts.Leaderboard.TopN(r.Context(), opts.Config.Leaderboard.DefaultLimit)
		if err != nil {
			http.Error(w, "leaderboard unavailable", http.StatusServiceUnavailable)
			return
		}
		templ.Handler(boardPage(rows)).ServeHTTP(w, r)
	})

	return httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
	), nil
}
