package main

import (
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pressly/goose/v3"
	"github.com/spf13/viper"

	"github.com/memoria-app/be-memoria-platform/config"
	"github.com/memoria-app/be-memoria-platform/domain/password"
	"github.com/memoria-app/be-memoria-platform/migrations"
	"github.com/memoria-app/be-memoria-platform/pkg/apperrors"
	"github.com/memoria-app/be-memoria-platform/pkg/logger"
	"github.com/memoria-app/be-memoria-platform/routes"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/main.go [server|migrate|cleanup]")
		os.Exit(1)
	}

	config.InitConfig()

	logger.Init(logger.Config{
		Level:       logger.Level(viper.GetString("LOG_LEVEL")),
		Environment: viper.GetString("ENVIRONMENT"),
		ServiceName: "memoria-platform",
		Version:     viper.GetString("APP_VERSION"),
	})
	log := logger.Get()

	config.InitDB()
	defer config.CloseDB()

	switch os.Args[1] {
	case "server":
		runMigrations(log)
		config.InitRedis()
		startServer(log)
	case "migrate":
		runMigrations(log)
	case "cleanup":
		if err := password.CleanupExpiredCredentials(); err != nil {
			log.Fatal("credential cleanup failed", err)
		}
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

func startServer(log logger.Logger) {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apperrors.HTTPErrorHandler(log)

	e.Use(logger.RequestLoggerMiddleware(log))
	e.Use(logger.RecoveryMiddleware(log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     allowedOrigins(),
		AllowMethods:     []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders:    []string{echo.HeaderContentLength},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	routes.RegisterRoutes(e)

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info("starting server", logger.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("server stopped", err)
	}
}

func allowedOrigins() []string {
	if origins := viper.GetStringSlice("CORS_ORIGINS"); len(origins) > 0 {
		return origins
	}
	return []string{"http://localhost:3000"}
}

func runMigrations(log logger.Logger) {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("failed to set migration dialect", err)
	}
	if err := goose.Up(config.DB.DB, "."); err != nil {
		log.Fatal("migrations failed", err)
	}
	log.Info("migrations applied")
}
