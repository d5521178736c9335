package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/indrhi/suministros-api/internal/application/ports"
	"github.com/indrhi/suministros-api/internal/bootstrap"
	"github.com/indrhi/suministros-api/internal/infrastructure/cache"
	httpRouter "github.com/indrhi/suministros-api/internal/interfaces/http"
	"github.com/indrhi/suministros-api/pkg/config"
	"github.com/indrhi/suministros-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	storage, err := bootstrap.OpenStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer storage.Close()

	if cfg.DB.AutoMigrate {
		applied, err := storage.Migrate(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("aplicadas", applied).Msg("esquema al día")
	}

	// Caché del catálogo: si Redis no responde se sigue sin caché.
	var catalogCache ports.CatalogCache = ports.NopCatalogCache{}
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, catálogo sin caché")
		} else {
			defer client.Close()
			catalogCache = cache.NewCatalogCache(client, cfg.Redis.TTL, log)
		}
	}

	svc := bootstrap.NewServices(cfg, storage, catalogCache, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "INDRHI Suministros API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ArticleUC:    svc.Articles,
		DepartmentUC: svc.Departments,
		UserUC:       svc.Users,
		AuthUC:       svc.Auth,
		Lifecycle:    svc.Lifecycle,
		Intake:       svc.Intake,
		DashboardUC:  svc.Dashboard,
		DB:           httpRouter.PingFunc(storage.Ping),
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
