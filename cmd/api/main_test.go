package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/KhYulian/Mapty-App/internal/config"
	"github.com/KhYulian/Mapty-App/internal/db"
	"github.com/KhYulian/Mapty-App/internal/server"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func TestRunHandlesSignal(t *testing.T) {
	cfg := config.Config{ServerPort: ":0"}
	signals := make(chan os.Signal, 1)

	listenCalled := make(chan struct{})
	listen := func(_ *fiber.App, _ string) error {
		close(listenCalled)
		return nil
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		signals <- syscall.SIGINT
	}()

	if err := Run(context.Background(), cfg, server.Resources{}, signals, listen); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	select {
	case <-listenCalled:
	case <-time.After(time.Second):
		t.Fatalf("expected listen to be called")
	}
}

func TestRunContextCancel(t *testing.T) {
	cfg := config.Config{ServerPort: ":0"}
	signals := make(chan os.Signal, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Run(ctx, cfg, server.Resources{}, signals, func(_ *fiber.App, _ string) error { return nil }); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
}

func TestRunListenError(t *testing.T) {
	cfg := config.Config{ServerPort: ":0"}
	signals := make(chan os.Signal, 1)

	err := Run(context.Background(), cfg, server.Resources{}, signals, func(_ *fiber.App, _ string) error {
		return errListen
	})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestRunDefaultListen(t *testing.T) {
	cfg := config.Config{ServerPort: ":0"}
	signals := make(chan os.Signal, 1)

	oldListen := defaultListen
	defaultListen = func(_ *fiber.App, _ string) error { return nil }
	defer func() { defaultListen = oldListen }()

	go func() {
		signals <- syscall.SIGINT
	}()

	if err := Run(context.Background(), cfg, server.Resources{}, signals, nil); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
}

func TestRunUnknownBackend(t *testing.T) {
	cfg := config.Config{ServerPort: ":0", StorageBackend: "s3"}
	signals := make(chan os.Signal, 1)

	if err := Run(context.Background(), cfg, server.Resources{}, signals, func(_ *fiber.App, _ string) error { return nil }); err == nil {
		t.Fatalf("expected backend error")
	}
}

var errListen = context.Canceled

func TestRealMainHandlesErrors(t *testing.T) {
	calledNotify := false
	calledRun := false
	calledPostgres := false
	deps := mainDeps{
		loadConfig: func() config.Config {
			return config.Config{ServerPort: ":0", StorageBackend: config.BackendPostgres}
		},
		connectPostgres: func(config.Config) (*pgxpool.Pool, error) {
			calledPostgres = true
			return nil, errListen
		},
		openSQLite: func(config.Config) (*sql.DB, error) {
			t.Fatalf("sqlite should not be opened for the postgres backend")
			return nil, nil
		},
		connectRedis: func(config.Config) *redis.Client { return nil },
		notify: func(ch chan<- os.Signal, _ ...os.Signal) {
			calledNotify = true
			close(ch)
		},
		run: func(_ context.Context, _ config.Config, res server.Resources, _ <-chan os.Signal, _ ListenFunc) error {
			calledRun = true
			if res.Postgres != nil {
				t.Fatalf("expected no postgres pool")
			}
			return errListen
		},
	}

	realMain(deps)
	if !calledPostgres {
		t.Fatalf("expected postgres connect to be called")
	}
	if !calledNotify {
		t.Fatalf("expected notify to be called")
	}
	if !calledRun {
		t.Fatalf("expected run to be called")
	}
}

func TestRealMainOpensSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapty.db")
	var got server.Resources
	deps := mainDeps{
		loadConfig: func() config.Config {
			return config.Config{ServerPort: ":0", StorageBackend: config.BackendSQLite, SQLitePath: path}
		},
		connectPostgres: func(config.Config) (*pgxpool.Pool, error) {
			t.Fatalf("postgres should not be dialed for the sqlite backend")
			return nil, nil
		},
		openSQLite:   db.OpenSQLite,
		connectRedis: func(config.Config) *redis.Client { return nil },
		notify:       func(chan<- os.Signal, ...os.Signal) {},
		run: func(_ context.Context, _ config.Config, res server.Resources, _ <-chan os.Signal, _ ListenFunc) error {
			got = res
			return nil
		},
	}

	realMain(deps)
	if got.SQLite == nil {
		t.Fatalf("expected sqlite handle")
	}
	_ = got.SQLite.Close()
}

func TestDefaultDeps(t *testing.T) {
	deps := defaultDeps()
	if deps.loadConfig == nil || deps.connectPostgres == nil || deps.openSQLite == nil || deps.connectRedis == nil || deps.notify == nil || deps.run == nil {
		t.Fatalf("expected default deps to be set")
	}
}

func TestMainUsesOverrides(t *testing.T) {
	oldProvider := mainDepsProvider
	oldRunner := mainRunner
	defer func() {
		mainDepsProvider = oldProvider
		mainRunner = oldRunner
	}()

	called := false
	mainDepsProvider = func() mainDeps { return mainDeps{} }
	mainRunner = func(mainDeps) { called = true }

	main()
	if !called {
		t.Fatalf("expected main runner to be called")
	}
}

func TestRunClosesResources(t *testing.T) {
	cfg := config.Config{ServerPort: ":0", StorageBackend: config.BackendRedis, SnapshotKey: "workouts"}
	signals := make(chan os.Signal, 1)

	redisServer := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: redisServer.Addr()})

	listen := func(_ *fiber.App, _ string) error {
		signals <- syscall.SIGINT
		return nil
	}

	if err := Run(context.Background(), cfg, server.Resources{Redis: client}, signals, listen); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if err := client.Ping(context.Background()).Err(); err == nil {
		t.Fatalf("expected redis client to be closed")
	}
}

func TestRunShutdownError(t *testing.T) {
	cfg := config.Config{ServerPort: ":0"}
	signals := make(chan os.Signal, 1)

	oldShutdown := shutdownFn
	shutdownFn = func(_ *fiber.App, _ context.Context) error { return errListen }
	defer func() { shutdownFn = oldShutdown }()

	redisServer := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: redisServer.Addr()})

	go func() {
		signals <- syscall.SIGINT
	}()

	if err := Run(context.Background(), cfg, server.Resources{Redis: client}, signals, func(_ *fiber.App, _ string) error { return nil }); err == nil {
		t.Fatalf("expected shutdown error")
	}
	if err := client.Ping(context.Background()).Err(); err == nil {
		t.Fatalf("expected redis client closed after failed shutdown")
	}
}

func TestRunListenErrorClosesResources(t *testing.T) {
	cfg := config.Config{ServerPort: ":0"}
	signals := make(chan os.Signal, 1)

	redisServer := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: redisServer.Addr()})

	err := Run(context.Background(), cfg, server.Resources{Redis: client}, signals, func(_ *fiber.App, _ string) error {
		return errListen
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if err := client.Ping(context.Background()).Err(); err == nil {
		t.Fatalf("expected redis client closed after listen error")
	}
}
