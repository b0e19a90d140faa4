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

	"github.com/casaempenos/prestamos-api/internal/application/contratos"
	"github.com/casaempenos/prestamos-api/internal/application/outbox"
	"github.com/casaempenos/prestamos-api/internal/infrastructure/httpclient"
	infrapdf "github.com/casaempenos/prestamos-api/internal/infrastructure/pdf"
	"github.com/casaempenos/prestamos-api/internal/infrastructure/postgres"
	httpRouter "github.com/casaempenos/prestamos-api/internal/interfaces/http"
	"github.com/casaempenos/prestamos-api/pkg/config"
	"github.com/casaempenos/prestamos-api/pkg/jwt"
	"github.com/casaempenos/prestamos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load("contratos")
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: "contratos",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando servicio de contratos")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureContratosSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("creación del esquema")
	}

	contratoRepo := postgres.NewContratoRepository(pool)
	liquidezRepo := postgres.NewLiquidezRepository(pool)
	transferenciaRepo := postgres.NewTransferenciaRepository(pool)
	pagoRepo := postgres.NewPagoRepository(pool)
	accionRepo := postgres.NewAccionPendienteRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	solicitudesClient := httpclient.NewSolicitudesClient(cfg.Services.SolicitudesURL)
	productosClient := httpclient.NewProductosClient(cfg.Services.ProductosURL)

	recorder := outbox.NewRecorder(accionRepo, cfg.Outbox.LogPath, log)
	ticketGen := infrapdf.NewMarotoTicketGenerator()

	jwtCfg := contratos.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}
	contratoUC := contratos.NewUseCase(contratoRepo, solicitudesClient, productosClient, recorder, ticketGen, jwtCfg, log)
	liquidezUC := contratos.NewLiquidezUseCase(liquidezRepo, transferenciaRepo, txRunner)
	pagoUC := contratos.NewPagoUseCase(pagoRepo, contratoRepo)

	// Reintentador de acciones pendientes sobre productos. Firma tokens
	// de sistema porque no hay un llamador humano detrás.
	tokenProvider := func() (string, error) {
		return jwt.Generate(cfg.JWT.Secret, jwt.Perfil{
			Username: "sistema-contratos",
			Rol:      jwt.RolAdmin,
		}, cfg.JWT.Issuer, cfg.JWT.Expiration)
	}
	retrier := outbox.NewRetrier(
		accionRepo,
		productosClient,
		tokenProvider,
		time.Duration(cfg.Outbox.PollSeconds)*time.Second,
		cfg.Outbox.MaxAttempts,
		log,
	)
	retrierCtx, stopRetrier := context.WithCancel(ctx)
	defer stopRetrier()
	go retrier.Run(retrierCtx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/contratos.json",
		Path:     "docs",
		Title:    "Contratos API",
	}))

	httpRouter.RouterContratos(app, httpRouter.ContratosRouterDeps{
		ContratoUC: contratoUC,
		LiquidezUC: liquidezUC,
		PagoUC:     pagoUC,
		JWTSecret:  cfg.JWT.Secret,
		Log:        log,
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
	stopRetrier()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("servicio detenido")
}
