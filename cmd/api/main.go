package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"strings"

	"github.com/formacentre/payroll-backend-go/internal/config"
	payrollDomain "github.com/formacentre/payroll-backend-go/internal/domain/payroll"
	appHTTP "github.com/formacentre/payroll-backend-go/internal/handler/http"
	"github.com/formacentre/payroll-backend-go/internal/pkg/cron"
	"github.com/formacentre/payroll-backend-go/internal/pkg/database"
	"github.com/formacentre/payroll-backend-go/internal/pkg/email"
	"github.com/formacentre/payroll-backend-go/internal/pkg/jwt"
	"github.com/formacentre/payroll-backend-go/internal/pkg/pdf"
	"github.com/formacentre/payroll-backend-go/internal/pkg/storage"
	"github.com/formacentre/payroll-backend-go/internal/repository/postgresql"
	authService "github.com/formacentre/payroll-backend-go/internal/service/auth"
	"github.com/formacentre/payroll-backend-go/internal/service/file"
	payrollService "github.com/formacentre/payroll-backend-go/internal/service/payroll"
	sessionService "github.com/formacentre/payroll-backend-go/internal/service/session"
	userService "github.com/formacentre/payroll-backend-go/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	if err := database.NewMigrator(db).Run(context.Background()); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	userRepo := postgresql.NewUserRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)
	sheetRepo := postgresql.NewSheetRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath)
		if err != nil {
			log.Fatal("Failed to initialize local storage: ", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service: ", err)
	}

	params := payrollDomain.NewStaticSource(payrollDomain.NewParameters(
		cfg.Payroll.HourlyTrainerRate,
		cfg.Payroll.FixedCoordinationFee,
		cfg.Payroll.TaxPercent,
	))
	renderer := pdf.NewRenderer("Centre de Formation")

	fileSvc := file.NewFileService(fileStorage, userRepo)
	authSvc := authService.NewAuthService(db, userRepo, refreshTokenRepo, jwtService)
	userSvc := userService.NewUserService(userRepo, emailService, cfg.App.FrontendURL)
	sessionSvc := sessionService.NewSessionService(db, sessionRepo, userRepo)
	payrollSvc := payrollService.NewPayrollService(db, sheetRepo, sessionRepo, userRepo, params, renderer)

	scheduler := cron.NewScheduler()
	cron.RegisterTokenCleanup(scheduler, refreshTokenRepo)
	scheduler.Start()
	defer scheduler.Stop()

	authHandler := appHTTP.NewAuthHandler(jwtService, authSvc)
	userHandler := appHTTP.NewUserHandler(userSvc, fileSvc)
	sessionHandler := appHTTP.NewSessionHandler(sessionSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Env:         cfg.App.Env,
			LogLevel:    parseLogLevel(cfg.App.LogLevel),
			FrontendURL: cfg.App.FrontendURL,
		},
		jwtService,
		authHandler,
		userHandler,
		sessionHandler,
		payrollHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
