package health

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/fx"

	"signal_bot/internal/metrics"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/health/service"
	notifier "signal_bot/internal/modules/notifier/service"
	"signal_bot/pkg/logger"
)

type Config struct {
	Addr string
}

func NewConfig(cfg *config.Config) Config {
	return Config{Addr: cfg.AdminAddr()}
}

// SubscriberCounter reports the current subscriber count.
type SubscriberCounter interface {
	Len() int
}

type healthz struct {
	Ready       bool   `json:"ready"`
	UptimeSec   int64  `json:"uptimeSec"`
	LastCycleID string `json:"lastCycleId"`
	LastCycleAt int64  `json:"lastCycleUnix"`
	LastCycleOK bool   `json:"lastCycleOk"`
	Cycles      int64  `json:"cycles"`
	Tracked     int    `json:"trackedInstruments"`
	Subscribers int    `json:"subscribers"`
}

func NewMux(state *service.State, subs SubscriberCounter) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		plain(w, http.StatusOK, "ok")
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if state.Ready() {
			plain(w, http.StatusOK, "ready")
			return
		}
		plain(w, http.StatusServiceUnavailable, "waiting for first scan cycle")
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		resp := healthz{
			Ready:       state.Ready(),
			UptimeSec:   int64(state.Uptime().Seconds()),
			LastCycleID: state.LastCycleID(),
			LastCycleOK: state.LastCycleOK(),
			Cycles:      state.Cycles(),
			Tracked:     state.Tracked(),
			Subscribers: subs.Len(),
		}
		if t := state.LastCycle(); !t.IsZero() {
			resp.LastCycleAt = t.Unix()
		}
		b, err := sonic.Marshal(&resp)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b)
	})

	mux.Handle("/metrics", metrics.Handler())

	return mux
}

func plain(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}

func RunHTTP(lc fx.Lifecycle, cfg Config, mux *http.ServeMux) {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return err
			}
			logger.Info("[HEALTH] listening on %s", ln.Addr())
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("[HEALTH] serve: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("health",
		fx.Provide(
			service.NewState,
			NewConfig,
			func(s *notifier.Subscribers) SubscriberCounter { return s },
			NewMux,
		),
		fx.Invoke(RunHTTP),
	)
}
