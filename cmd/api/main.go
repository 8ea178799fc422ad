package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KhYulian/Mapty-App/internal/config"
	"github.com/KhYulian/Mapty-App/internal/db"
	"github.com/KhYulian/Mapty-App/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

var mainDepsProvider = defaultDeps
var mainRunner = realMain

func main() {
	mainRunner(mainDepsProvider())
}

type mainDeps struct {
	loadConfig      func() config.Config
	connectPostgres func(config.Config) (*pgxpool.Pool, error)
	openSQLite      func(config.Config) (*sql.DB, error)
	connectRedis    func(config.Config) *redis.Client
	notify          func(chan<- os.Signal, ...os.Signal)
	run             func(context.Context, config.Config, server.Resources, <-chan os.Signal, ListenFunc) error
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig:      config.Load,
		connectPostgres: db.ConnectPostgres,
		openSQLite:      db.OpenSQLite,
		connectRedis:    db.ConnectRedis,
		notify:          signal.Notify,
		run:             Run,
	}
}

func realMain(deps mainDeps) {
	cfg := deps.loadConfig()

	var res server.Resources
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		pg, err := deps.connectPostgres(cfg)
		if err != nil {
			log.Printf("postgres connection failed: %v", err)
		}
		res.Postgres = pg
	case config.BackendSQLite:
		conn, err := deps.openSQLite(cfg)
		if err != nil {
			log.Printf("sqlite open failed: %v", err)
		}
		res.SQLite = conn
	}

	// Redis also fans stream commands out across instances.
	res.Redis = deps.connectRedis(cfg)

	signals := make(chan os.Signal, 1)
	deps.notify(signals, syscall.SIGINT, syscall.SIGTERM)

	if err := deps.run(context.Background(), cfg, res, signals, nil); err != nil {
		log.Printf("server exited with error: %v", err)
	}
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

var shutdownFn = func(app *fiber.App, ctx context.Context) error {
	return app.ShutdownWithContext(ctx)
}

// Run starts the HTTP server and waits for termination signals.
func Run(ctx context.Context, cfg config.Config, res server.Resources, signals <-chan os.Signal, listen ListenFunc) error {
	srv, err := server.NewServer(cfg, res)
	if err != nil {
		closeResources(res)
		return err
	}

	defer func() {
		srv.Stream.Close()
		closeResources(res)
	}()

	if listen == nil {
		listen = defaultListen
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- listen(srv.App, cfg.ServerPort)
	}()

	select {
	case <-signals:
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return shutdownFn(srv.App, shutdownCtx)
}

func closeResources(res server.Resources) {
	if res.Postgres != nil {
		res.Postgres.Close()
	}
	if res.SQLite != nil {
		_ = res.SQLite.Close()
	}
	if res.Redis != nil {
		_ = res.Redis.Close()
	}
}
