package server

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/KhYulian/Mapty-App/internal/auth"
	"github.com/KhYulian/Mapty-App/internal/config"
	"github.com/KhYulian/Mapty-App/internal/session"
	"github.com/KhYulian/Mapty-App/internal/storage"
	"github.com/KhYulian/Mapty-App/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Resources are the optional backing connections opened by main.
type Resources struct {
	Postgres *pgxpool.Pool
	SQLite   *sql.DB
	Redis    *redis.Client
}

type Server struct {
	App        *fiber.App
	Cfg        config.Config
	Res        Resources
	Stream     *stream.Hub
	Controller *session.Controller
}

func NewServer(cfg config.Config, res Resources) (*Server, error) {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	ctx := context.Background()
	slot, err := OpenSlot(ctx, cfg, res)
	if err != nil {
		return nil, err
	}

	hub := stream.NewHub(res.Redis)
	view := stream.NewView(hub, cfg.StreamChannel)
	ctrl := session.NewController(slot, view.Views(), cfg.MapZoom)
	if err := ctrl.Start(ctx); err != nil {
		log.Printf("starting with an empty logbook: %v", err)
	}

	s := &Server{
		App:        app,
		Cfg:        cfg,
		Res:        res,
		Stream:     hub,
		Controller: ctrl,
	}

	registerRoutes(s, view)
	return s, nil
}

// OpenSlot picks the snapshot backend. A backend whose connection is missing
// falls back to memory so the app still runs for the session.
func OpenSlot(ctx context.Context, cfg config.Config, res Resources) (storage.Slot, error) {
	switch cfg.StorageBackend {
	case config.BackendRedis:
		if res.Redis != nil {
			return storage.NewRedisSlot(res.Redis, cfg.SnapshotKey), nil
		}
	case config.BackendPostgres:
		if res.Postgres != nil {
			slot := storage.NewPostgresSlot(res.Postgres, cfg.SnapshotKey)
			if err := slot.EnsureSchema(ctx); err != nil {
				return nil, fmt.Errorf("postgres schema: %w", err)
			}
			return slot, nil
		}
	case config.BackendSQLite:
		if res.SQLite != nil {
			slot := storage.NewSQLiteSlot(res.SQLite, cfg.SnapshotKey)
			if err := slot.EnsureSchema(ctx); err != nil {
				return nil, fmt.Errorf("sqlite schema: %w", err)
			}
			return slot, nil
		}
	case config.BackendMemory, "":
		return storage.NewMemorySlot(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	log.Printf("storage backend %s unavailable, keeping workouts in memory", cfg.StorageBackend)
	return storage.NewMemorySlot(), nil
}

func registerRoutes(s *Server, view *stream.View) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	guard := auth.Open()
	if s.Cfg.AuthEnabled() {
		guard = auth.JWTMiddleware(s.Cfg.JWTSecret)
		auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.Cfg.OperatorPasswordHash))
	}

	session.RegisterRoutes(s.App.Group("/session"), s.Controller, view, guard)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
