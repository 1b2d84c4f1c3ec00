// cmd/gateway/main.go
//
// Formgate – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load config (dotenv → conf/gateway.yaml → FORMGATE_ env overrides,
//     with vault: references resolved).
//
//  2. Start the daily rotating logger (tees to console when in a TTY).
//
//  3. Register every YAML form definition under the forms directory.
//
//  4. Open the optional GeoLite2 database for request enrichment.
//
//  5. Pick the trigger emitter: webhook forwarder when a URL is configured,
//     log emitter otherwise.
//
//  6. If a database DSN and public URL are configured, record this
//     gateway's endpoint in the webhook-registration store and remove it
//     again on shutdown.
//
//  7. Serve: request-info enrichment → security headers → /metrics and the
//     form routes, on a hardened http.Server, with errgroup-managed
//     graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/joffcom/formgate/internal/config"
	"github.com/joffcom/formgate/internal/database"
	"github.com/joffcom/formgate/internal/form"
	"github.com/joffcom/formgate/internal/gateway"
	"github.com/joffcom/formgate/internal/hookreg"
	"github.com/joffcom/formgate/internal/logger"
	"github.com/joffcom/formgate/internal/middleware"
	"github.com/joffcom/formgate/internal/requestinfo"
	"github.com/joffcom/formgate/internal/server"
	"github.com/joffcom/formgate/internal/trigger"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logOut, err := logger.New(cfg.Paths.Root, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	//
	// ── 1.  Form definitions ────────────────────────────────────────────
	//
	formsDir := cfg.Forms.Dir
	if !filepath.IsAbs(formsDir) {
		formsDir = filepath.Join(cfg.Paths.Root, formsDir)
	}
	if err := form.RegisterForms(formsDir); err != nil {
		logOut.Fatalw("register forms", "dir", formsDir, "err", err)
	}
	logOut.Infow("forms registered", "dir", formsDir, "forms", form.IDs())

	//
	// ── 2.  Optional geo enrichment ─────────────────────────────────────
	//
	if cfg.Geo.DBPath != "" {
		if err := requestinfo.InitGeo(cfg.Geo.DBPath); err != nil {
			logOut.Fatalw("open geo database", "path", cfg.Geo.DBPath, "err", err)
		}
	}

	//
	// ── 3.  Trigger emitter ─────────────────────────────────────────────
	//
	var emitter trigger.Emitter = trigger.LogEmitter{}
	if cfg.Trigger.WebhookURL != "" {
		emitter = &trigger.WebhookEmitter{URL: cfg.Trigger.WebhookURL}
		logOut.Infow("webhook emitter online", "url", cfg.Trigger.WebhookURL)
	}

	//
	// ── 4.  Webhook registration bookkeeping (optional) ─────────────────
	//
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.DSN != "" && cfg.HTTP.PublicURL != "" {
		db, err := database.Open(cfg.Database.DSN)
		if err != nil {
			logOut.Fatalw("connect registration DB", "err", err)
		}
		defer db.Close()

		reg := hookreg.New(db)
		target := cfg.HTTP.PublicURL
		exists, err := reg.CheckExisting(ctx, target)
		if err != nil {
			logOut.Fatalw("check webhook registration", "err", err)
		}
		if !exists {
			id, err := reg.Register(ctx, target)
			if err != nil {
				logOut.Fatalw("register webhook", "err", err)
			}
			logOut.Infow("webhook registered", "id", id, "target", target)
			defer func() {
				// Shutdown context may already be cancelled; give the
				// teardown its own short deadline.
				dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if ok, err := reg.Unregister(dctx, id); err != nil || !ok {
					logOut.Warnw("unregister webhook", "id", id, "ok", ok, "err", err)
				}
			}()
		}
	}

	//
	// ── 5.  Router and server ───────────────────────────────────────────
	//
	root := chi.NewRouter()
	root.Use(requestinfo.Enrich)
	root.Use(middleware.Security)
	root.Handle("/metrics", promhttp.Handler())

	gw := gateway.New(logOut, emitter, cfg.Ingest.MaxBodyBytes)
	root.Mount("/", gw.Routes())

	srv := server.New(cfg.HTTP.ListenAddr, root)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		logOut.Fatalw("gateway stopped", "err", err)
	}
	logOut.Infow("gateway stopped")
}
