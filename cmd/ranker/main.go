package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"

	"remotive-ranker/internal/config"
	"remotive-ranker/internal/events"
	"remotive-ranker/internal/httpapi"
	"remotive-ranker/internal/notify"
	"remotive-ranker/internal/refresh"
	"remotive-ranker/internal/secrets"
	"remotive-ranker/internal/store"
)

var errInvalidConfig = errors.New("config validation failed")

func main() {
	// .env is optional; env vars only override secrets, never config.
	_ = godotenv.Load()

	dataDir := os.Getenv("RANKER_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// Two instances sharing one sqlite file and one port helps nobody.
	lock := flock.New(filepath.Join(dataDir, "ranker.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("instance lock: %v", err)
	}
	if !locked {
		log.Fatalf("another instance is already running (lock: %s)", lock.Path())
	}
	defer lock.Unlock()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return config.Config{}, err
		}
		if err := config.OverlayKeywords(&cfg, filepath.Join(dataDir, "keywords.yml")); err != nil {
			return config.Config{}, err
		}
		normalized, vr := config.NormalizeAndValidate(cfg)
		for _, w := range vr.Warnings {
			log.Printf("[config] warning: %s", w)
		}
		if !vr.OK() {
			for _, e := range vr.Errors {
				log.Printf("[config] error: %s", e)
			}
			return config.Config{}, errInvalidConfig
		}
		return normalized, nil
	}

	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}

	var cfgVal atomic.Value
	cfgVal.Store(cfg)

	var refreshStatus atomic.Value
	refreshStatus.Store(refresh.Status{})

	dbPath := filepath.Join(dataDir, "ranker.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := store.Migrate(db); err != nil {
		log.Fatal(err)
	}

	hub := events.NewHub()

	var notifier refresh.Notifier
	if cfg.Notify.Enabled {
		token, err := secrets.GetTelegramToken()
		if err != nil {
			log.Printf("[notify] telegram disabled: %v", err)
		} else {
			tn, err := notify.NewTelegramNotifier(token, cfg.Notify.ChatID, cfg.Notify.MinScore, cfg.Notify.MaxPerRun)
			if err != nil {
				log.Printf("[notify] telegram disabled: %v", err)
			} else {
				notifier = tn
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := refresh.NewScheduler(db, &cfgVal, &refreshStatus, hub, notifier)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	defer sched.Stop()

	mux := httpapi.NewMux(httpapi.Deps{
		DB:             db,
		Hub:            hub,
		CfgVal:         &cfgVal,
		RefreshStatus:  &refreshStatus,
		UserCfgPath:    userCfgPath,
		LoadCfg:        loadCfg,
		TriggerRefresh: func() { go sched.Run(ctx) },
	})

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.App.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("ranker listening on http://%s (db=%s)", addr, dbPath)

	srv := &http.Server{
		Handler:           httpapi.Chain(mux, httpapi.RequestID, httpapi.Recover, httpapi.AccessLog, httpapi.Cors),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
	log.Println("ranker stopped")
}
