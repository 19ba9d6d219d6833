package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"freightops/cmd"
	adapterhttp "freightops/internal/adapters/in/http"
	"freightops/internal/adapters/out/postgres/packagerepo"
	"freightops/internal/adapters/out/postgres/transactionrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Fail the boot on a malformed API contract.
	if _, err := adapterhttp.LoadOpenAPISpec(context.Background()); err != nil {
		log.Fatalf("Invalid OpenAPI contract: %v", err)
	}

	gormDB := mustConnectDB(configs)

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Failed to build composition root: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	return cmd.Config{
		HTTPPort:                   goDotEnvVariable("HTTP_PORT"),
		DBHost:                     goDotEnvVariable("DB_HOST"),
		DBPort:                     goDotEnvVariable("DB_PORT"),
		DBUser:                     goDotEnvVariable("DB_USER"),
		DBPassword:                 goDotEnvVariable("DB_PASSWORD"),
		DBName:                     goDotEnvVariable("DB_NAME"),
		DBSslMode:                  goDotEnvVariable("DB_SSLMODE"),
		KafkaHost:                  goDotEnvVariable("KAFKA_HOST"),
		KafkaTransactionEventTopic: goDotEnvVariable("KAFKA_TRANSACTION_EVENT_TOPIC"),
		StaleTransactionMaxAge:     goDotEnvVariable("STALE_TRANSACTION_MAX_AGE"),
	}
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)

	// TranslateError lets the repositories map unique index violations to
	// domain conflicts.
	gormDB, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err = gormDB.AutoMigrate(
		&transactionrepo.TransactionDTO{},
		&transactionrepo.TransactionPackageDTO{},
		&transactionrepo.StepRecordDTO{},
		&packagerepo.PackageDTO{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return gormDB
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := adapterhttp.NewServer(
		app.CreateCreateTransactionCommandHandler(),
		app.CreateExecuteStepCommandHandler(),
		app.CreateCompleteTransactionCommandHandler(),
		app.CreateDeleteTransactionCommandHandler(),
		app.CreateGetTransactionsQueryHandler(),
		app.CreateGetAvailablePackagesQueryHandler(),
		app.FlowRegistry(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
