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

	"github.com/casaempenos/prestamos-api/internal/application/solicitudes"
	"github.com/casaempenos/prestamos-api/internal/infrastructure/httpclient"
	"github.com/casaempenos/prestamos-api/internal/infrastructure/postgres"
	httpRouter "github.com/casaempenos/prestamos-api/internal/interfaces/http"
	"github.com/casaempenos/prestamos-api/pkg/config"
	"github.com/casaempenos/prestamos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load("solicitudes")
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: "solicitudes",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando servicio de solicitudes")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSolicitudesSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("creación del esquema")
	}

	solicitudRepo := postgres.NewSolicitudRepository(pool)
	contratosClient := httpclient.NewContratosClient(cfg.Services.ContratosURL)
	solicitudUC := solicitudes.NewUseCase(solicitudRepo, contratosClient, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/solicitudes.json",
		Path:     "docs",
		Title:    "Solicitudes API",
	}))

	httpRouter.RouterSolicitudes(app, httpRouter.SolicitudesRouterDeps{
		SolicitudUC: solicitudUC,
		JWTSecret:   cfg.JWT.Secret,
		Log:         log,
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

	log.Info().Msg("servicio detenido")
}
