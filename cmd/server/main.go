package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	"github.com/liverool/volleymate/internal/cache"
	"github.com/liverool/volleymate/internal/handlers"
	"github.com/liverool/volleymate/internal/middleware"
	"github.com/liverool/volleymate/internal/repository"
	"github.com/liverool/volleymate/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:   "Volleymate Backend",
		BodyLimit: 1 * 1024 * 1024, // 1MB, JSON only
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("ALLOWED_ORIGINS"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-VM-CSRF",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize database connection
	db, err := repository.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis cache
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsedDB, err := strconv.Atoi(dbStr); err == nil {
			redisDB = parsedDB
		}
	}

	redisCache := cache.NewRedisCache(redisAddr, redisPassword, redisDB)
	if err := redisCache.Ping(); err != nil {
		log.Printf("WARNING: Redis connection failed: %v. Running without cache.", err)
		redisCache = nil
	} else {
		log.Println("Redis cache connected successfully")
	}

	matchCache := cache.NewMatchCache(redisCache)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	oneTimeTokenRepo := repository.NewOneTimeTokenRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	interestRepo := repository.NewInterestRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	matchReadRepo := repository.NewMatchReadRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, oneTimeTokenRepo)
	userService := service.NewUserService(userRepo)
	requestService := service.NewRequestService(requestRepo, interestRepo, matchRepo, userRepo)
	matchService := service.NewMatchService(matchRepo, requestRepo, interestRepo)
	messageService := service.NewMessageService(messageRepo, matchRepo, matchReadRepo)

	// Background jobs: expire stale requests, purge dead tokens
	scheduler := service.NewScheduler(requestRepo, refreshTokenRepo, oneTimeTokenRepo)
	if err := scheduler.Start(); err != nil {
		log.Fatal("Failed to start scheduler:", err)
	}
	defer scheduler.Stop()

	// Initialize handlers
	wsHandler := handlers.NewWebSocketHandler(matchService, messageService, matchCache)
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	requestHandler := handlers.NewRequestHandler(requestService, matchService, wsHandler.GetHub())
	matchHandler := handlers.NewMatchHandler(matchService, messageService, matchCache, wsHandler.GetHub())

	// Public routes
	api := app.Group("/api", middleware.OriginAllowed())
	auth := api.Group("/auth", limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	}))
	auth.Get("/csrf", authHandler.CSRF)
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh) // No CSRF required - protected by HttpOnly refresh token
	auth.Post("/logout", middleware.CSRFRequired(), authHandler.Logout)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/resend-confirmation", authHandler.ResendConfirmation)
	auth.Post("/confirm-email", authHandler.ConfirmEmail)

	// Protected routes
	protected := api.Group("/", middleware.AuthRequired(), middleware.CSRFRequired())
	protected.Get("/users/me", userHandler.GetCurrentUser)
	protected.Put("/users/me", userHandler.UpdateProfile)

	protected.Post("/requests", requestHandler.CreateRequest)
	protected.Get("/requests", requestHandler.ListRequests)
	protected.Get("/requests/:id", requestHandler.GetRequest)
	protected.Put("/requests/:id/status", requestHandler.UpdateStatus)
	protected.Delete("/requests/:id", requestHandler.DeleteRequest)
	protected.Post("/requests/:id/interest", requestHandler.AddInterest)
	protected.Delete("/requests/:id/interest", requestHandler.WithdrawInterest)
	protected.Post("/requests/:id/approve", requestHandler.ApproveInterest)
	protected.Delete("/requests/:id/interest/:userId", requestHandler.RejectInterest)

	protected.Get("/matches", matchHandler.ListMatches)
	protected.Get("/matches/:id", matchHandler.GetMatch)
	protected.Get("/matches/:id/messages", matchHandler.GetMessages)
	protected.Post("/matches/:id/messages", matchHandler.PostMessage)
	protected.Post("/matches/:id/read", matchHandler.MarkRead)

	// WebSocket route (websocket upgrade needs special handling)
	app.Use(
		"/ws",
		middleware.OriginAllowed(),
		middleware.AuthRequired(),
		func(c *fiber.Ctx) error {
			// Upgrade to WebSocket
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		},
	)
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Volleymate is running",
		})
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s...", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
