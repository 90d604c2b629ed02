package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"catalog-service/internal/adapters/filestorage"
	"catalog-service/internal/adapters/geocoder"
	"catalog-service/internal/adapters/imagehash"
	logger_adapter "catalog-service/internal/adapters/logger"
	postgres_adapter "catalog-service/internal/adapters/postgres"
	rabbitmq_adapter "catalog-service/internal/adapters/rabbitmq"
	"catalog-service/internal/adapters/rest"
	"catalog-service/internal/configs"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/slugger"
	"catalog-service/internal/core/usecase"
	"catalog-service/pkg/fluentlogger"
	"catalog-service/pkg/postgres"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App – структура приложения
type App struct {
	config         *configs.AppConfig
	dbPool         *pgxpool.Pool
	apiServer      *rest.Server
	eventPublisher port.EventPublisherPort
	fluentClient   *fluent.Fluent
	logger         port.LoggerPort
}

// NewApp создает новый экземпляр приложения.
// Это "Composition Root", где все зависимости создаются и связываются.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- Логгеры ---
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- Низкоуровневые зависимости ---
	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Database.URL})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	listingStorage, err := postgres_adapter.NewListingStorageAdapter(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create listing storage adapter: %w", err)
	}
	photoStorage, err := postgres_adapter.NewPhotoStorageAdapter(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create photo storage adapter: %w", err)
	}
	referenceStorage, err := postgres_adapter.NewReferenceStorageAdapter(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create reference storage adapter: %w", err)
	}
	appLogger.Info("Postgres storage adapters initialized.", nil)

	fileStorage, err := filestorage.NewDiskStorage(filestorage.Config{
		RootDir: appConfig.Uploads.Dir,
	})
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create file storage: %w", err)
	}

	geocoderClient := geocoder.NewYandexClient(geocoder.Config{
		APIKey:  appConfig.Geocoder.APIKey,
		BaseURL: appConfig.Geocoder.BaseURL,
		Timeout: appConfig.Geocoder.Timeout,
	})

	photoHasher := imagehash.NewHasher()

	eventPublisher, err := rabbitmq_adapter.NewListingEventsPublisher(rabbitmq_adapter.Config{
		URL:      appConfig.RabbitMQ.URL,
		Exchange: appConfig.RabbitMQ.Exchange,
	})
	if err != nil {
		appLogger.Error("Failed to create event publisher", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create event publisher: %w", err)
	}
	appLogger.Info("RabbitMQ event publisher initialized.", nil)

	slugGenerator, err := slugger.NewGenerator(listingStorage)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create slug generator: %w", err)
	}

	// --- Use cases ---
	uploadPhotosUseCase := usecase.NewUploadPhotosUseCase(listingStorage, photoStorage, fileStorage, photoHasher)
	createListingUseCase := usecase.NewCreateListingUseCase(listingStorage, geocoderClient, slugGenerator, uploadPhotosUseCase, eventPublisher)
	updateListingUseCase := usecase.NewUpdateListingUseCase(listingStorage, geocoderClient, slugGenerator, eventPublisher)
	findListingsUseCase := usecase.NewFindListingsUseCase(listingStorage)
	getListingUseCase := usecase.NewGetListingUseCase(listingStorage)
	archiveListingUseCase := usecase.NewArchiveListingUseCase(listingStorage, eventPublisher)
	restoreListingUseCase := usecase.NewRestoreListingUseCase(listingStorage, eventPublisher)
	deleteListingUseCase := usecase.NewDeleteListingUseCase(listingStorage, photoStorage, fileStorage, eventPublisher)
	setMainPhotoUseCase := usecase.NewSetMainPhotoUseCase(photoStorage)
	deletePhotoUseCase := usecase.NewDeletePhotoUseCase(photoStorage, fileStorage)
	getReferencesUseCase := usecase.NewGetReferencesUseCase(referenceStorage)
	appLogger.Info("All use cases initialized.", nil)

	// --- REST API Server ---
	listingHandler := rest.NewListingHandler(
		createListingUseCase,
		updateListingUseCase,
		findListingsUseCase,
		getListingUseCase,
		archiveListingUseCase,
		restoreListingUseCase,
		deleteListingUseCase,
	)
	photoHandler := rest.NewPhotoHandler(uploadPhotosUseCase, setMainPhotoUseCase, deletePhotoUseCase)
	referenceHandler := rest.NewReferenceHandler(getReferencesUseCase)

	apiServer := rest.NewServer(rest.ServerConfig{
		Port:       appConfig.Rest.PORT,
		JWTSecret:  appConfig.Rest.JWTSecret,
		UploadsDir: appConfig.Uploads.Dir,
	}, listingHandler, photoHandler, referenceHandler, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	return &App{
		config:         appConfig,
		dbPool:         dbPool,
		apiServer:      apiServer,
		eventPublisher: eventPublisher,
		fluentClient:   fluentClient,
		logger:         appLogger,
	}, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		if a.eventPublisher != nil {
			if err := a.eventPublisher.Close(); err != nil {
				a.logger.Error("Error closing event publisher", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// Логируем в stdout, так как fluent может быть уже недоступен
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	errorsCh := make(chan error, 1)

	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", err, nil)
	}

	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
