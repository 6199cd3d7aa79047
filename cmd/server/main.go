package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	authhandler "electoral/internal/auth/handler"
	authsvc "electoral/internal/auth/service"
	electionhandler "electoral/internal/election/handler"
	electionsvc "electoral/internal/election/service"
	enrollmenthandler "electoral/internal/enrollment/handler"
	enrollmentmetrics "electoral/internal/enrollment/metrics"
	enrollmentsvc "electoral/internal/enrollment/service"
	identityhandler "electoral/internal/identity/handler"
	identitysvc "electoral/internal/identity/service"
	jwttoken "electoral/internal/jwt_token"
	notificationhandler "electoral/internal/notification/handler"
	notificationsvc "electoral/internal/notification/service"
	"electoral/internal/outbox"
	"electoral/internal/platform/config"
	"electoral/internal/platform/httpserver"
	"electoral/internal/platform/logger"
	"electoral/internal/platform/metrics"
	"electoral/internal/platform/password"
	"electoral/internal/platform/upload"
	"electoral/pkg/platform/httputil"
	authmw "electoral/pkg/platform/middleware/auth"
	"electoral/pkg/platform/middleware/metadata"
	"electoral/pkg/platform/middleware/request"
	"electoral/pkg/platform/middleware/requesttime"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run wires dependencies and blocks until SIGINT/SIGTERM or the first
// component failure. Business logic lives in internal service packages.
func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogLevel)
	if cfg.UsesDevSigningKey() {
		log.Warn("using the development JWT signing key; set JWT_SIGNING_KEY in production")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer be.close()

	objects, err := openObjectStore(cfg.Storage, log)
	if err != nil {
		return err
	}
	trl, redisHealth, err := openRevocationList(ctx, cfg.Redis, log)
	if err != nil {
		return err
	}

	hasher := password.NewBcrypt(0)
	tokens := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience)

	elections := electionsvc.New(be.elections, electionsvc.WithLogger(log))
	profiles := identitysvc.New(be.users, be.roles, be.profileTx, objects, identitysvc.WithLogger(log))
	enrollment := enrollmentsvc.New(be.enrollmentTx, be.enrollment, hasher,
		enrollmentsvc.WithLogger(log),
		enrollmentsvc.WithMetrics(enrollmentmetrics.New()),
		enrollmentsvc.WithObjectStore(objects),
	)
	auth := authsvc.New(be.users, be.roles, hasher, tokens, trl, cfg.Server.JWTTTL, log)
	notifications := notificationsvc.New(be.notifications, log)
	dispatcher := notificationsvc.NewDispatcher(be.notifications, notificationsvc.LogPusher{Logger: log}, log)

	if cfg.Admin.Enabled() {
		if err := bootstrapAdmin(ctx, be.enrollmentTx, hasher, cfg.Admin, log); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	broker, err := openBroker(ctx, cfg.Kafka, dispatcher, log)
	if err != nil {
		return err
	}
	defer broker.close()

	uploader := upload.New(objects)
	authHandler := authhandler.New(auth, log)

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(log))
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(request.Logger(log, metrics.NewHTTP()))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", healthHandler(log, be.ping, redisHealth, broker.ping))
	authHandler.Register(r)

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(jwttoken.NewJWTServiceAdapter(tokens), trl, log))
		authHandler.RegisterAuthenticated(r)
		identityhandler.New(profiles, uploader, objects, log).Register(r)
		notificationhandler.New(notifications, log).Register(r)
		electionhandler.New(elections, log).Register(r)
		enrollmenthandler.New(enrollment, uploader, objects, log).Register(r)
	})

	relay := outbox.NewRelay(be.outbox, broker.publisher, cfg.Outbox.PollInterval, cfg.Outbox.BatchSize, log)
	srv := httpserver.New(cfg.Server.Addr, r)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting electoral", "addr", cfg.Server.Addr, "storage", be.kind, "broker", broker.kind)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return relay.Run(gctx)
	})
	if broker.consume != nil {
		g.Go(func() error {
			return broker.consume(gctx)
		})
	}

	err = g.Wait()
	log.Info("electoral stopped")
	return err
}

type healthCheck func(ctx context.Context) error

func healthHandler(log *slog.Logger, checks ...healthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		for _, check := range checks {
			if check == nil {
				continue
			}
			if err := check(ctx); err != nil {
				log.WarnContext(ctx, "health check failed", "error", err)
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
