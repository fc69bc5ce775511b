package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/unimate-app/unimate-backend/internal/config"
	"github.com/unimate-app/unimate-backend/internal/database"
	"github.com/unimate-app/unimate-backend/internal/handlers"
	"github.com/unimate-app/unimate-backend/internal/middleware"
	"github.com/unimate-app/unimate-backend/internal/routes"
	"github.com/unimate-app/unimate-backend/internal/services"
	"github.com/unimate-app/unimate-backend/internal/store"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Connect to PostgreSQL (user accounts)
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis (tokens, rate limiting)
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Connect to MongoDB (announcement feed)
	log.Printf("Connecting to MongoDB...")
	if err := database.ConnectMongo(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.DisconnectMongo()

	userStore := store.NewUserStore(database.PostgresDB)
	announcementStore := store.NewAnnouncementStore(database.MongoDB)
	tokenStore := services.NewTokenStore(database.RedisClient)

	if err := announcementStore.EnsureIndexes(context.Background()); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB announcement indexes: %v", err)
	} else {
		log.Println("✅ MongoDB announcement indexes ensured")
	}

	// Initialize Cloudinary service (optional — image uploads disabled without it)
	var uploader handlers.Uploader
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		cloudinaryService, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			log.Println("Image uploads will not be available")
		} else {
			uploader = cloudinaryService
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. Image uploads will not be available")
	}

	authHandler := handlers.NewAuthHandler(userStore, tokenStore, cfg)
	userHandler := handlers.NewUserHandler(userStore)
	announcementHandler := handlers.NewAnnouncementHandler(announcementStore, userStore, uploader)

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Production: SecurityHeaders → LoginRateLimit on top of the Redis limiter
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity() {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, login rate limiting)")
	}
	r.Use(middleware.RateLimitMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r, authHandler, userHandler, announcementHandler, tokenStore)

	log.Println("📋 Registered routes:")
	log.Println("  GET  /health")
	log.Println("  POST /user/register")
	log.Println("  POST /user/login")
	log.Println("  POST /user/logout")
	log.Println("  GET  /user/")
	log.Println("  GET  /user/profile")
	log.Println("  PUT  /user/profile")
	log.Println("  GET  /announcement/")
	log.Println("  POST /announcement/create")

	log.Printf("🚀 Unimate backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
