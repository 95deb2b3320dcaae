package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/EeLin02/6005CEM--Security-Group4/internal/config"
	"github.com/EeLin02/6005CEM--Security-Group4/internal/controllers"
	"github.com/EeLin02/6005CEM--Security-Group4/internal/database"
	"github.com/EeLin02/6005CEM--Security-Group4/internal/mailer"
	"github.com/EeLin02/6005CEM--Security-Group4/internal/middleware"
	"github.com/EeLin02/6005CEM--Security-Group4/internal/repositories"
	"github.com/EeLin02/6005CEM--Security-Group4/internal/routes"
	"github.com/EeLin02/6005CEM--Security-Group4/internal/services"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := database.Connect(&cfg.Database); err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Printf("error closing database: %v", err)
		}
	}()

	if err := database.RunMigrations(&cfg.Database); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	resetTokenRepo := repositories.NewResetTokenRepository(db)
	courseRepo := repositories.NewCourseRepository(db)

	// Services
	hasher := services.NewPasswordHasher(cfg.Auth.BcryptCost)
	sessionTTL, err := cfg.JWT.GetSessionExpiry()
	if err != nil {
		log.Fatalf("invalid session expiry: %v", err)
	}
	tokenService := services.NewTokenService(cfg.JWT.Secret, sessionTTL)
	authService := services.NewAuthService(userRepo, hasher, cfg)

	resetTTL, err := cfg.Auth.GetResetTokenExpiry()
	if err != nil {
		log.Fatalf("invalid reset token expiry: %v", err)
	}
	resetService := services.NewPasswordResetService(
		userRepo, resetTokenRepo, hasher, mailer.New(cfg.Email),
		cfg.Auth.ResetBaseURL, resetTTL,
	)

	// Controllers
	authController := controllers.NewAuthController(authService, tokenService)
	userController := controllers.NewUserController(authService)
	courseController := controllers.NewCourseController(courseRepo)
	passwordController := controllers.NewPasswordController(resetService)

	// Router
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	router.Use(corsMiddleware(cfg))

	sessionMiddleware := middleware.SessionMiddleware(tokenService, userRepo)
	routes.SetupRoutes(router, authController, userController, courseController, passwordController, sessionMiddleware)

	addr := cfg.Server.Host + ":" + strconv.Itoa(cfg.Server.Port)
	go func() {
		log.Printf("Server running on %s", addr)
		if err := router.Run(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to run server: %v", err)
		}
	}()

	waitForShutdown()
}

func waitForShutdown() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("Shutting down server...")
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	origin := "*"
	if len(cfg.CORS.AllowedOrigins) > 0 {
		origin = cfg.CORS.AllowedOrigins[0]
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
		if cfg.CORS.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
