package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/PranayChowdhury00/event-management-task-ph-Backend/config"
	"github.com/PranayChowdhury00/event-management-task-ph-Backend/controllers"
	"github.com/PranayChowdhury00/event-management-task-ph-Backend/middleware"
	"github.com/PranayChowdhury00/event-management-task-ph-Backend/session"
	"github.com/PranayChowdhury00/event-management-task-ph-Backend/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := config.NewLogger(cfg)

	ctx := context.Background()

	mongoClient, err := config.ConnectMongo(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("mongo connection failed")
	}
	db := mongoClient.Database(cfg.MongoDB)
	logger.Info().Str("db", cfg.MongoDB).Msg("connected to MongoDB")

	redisClient, err := config.ConnectRedis(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	logger.Info().Str("addr", cfg.RedisAddr).Msg("connected to Redis")

	sessions := &middleware.Sessions{
		Store:  session.NewStore(redisClient),
		Secret: cfg.SessionSecret,
		Secure: cfg.Production(),
		Logger: logger,
	}
	auth := controllers.NewAuthController(store.NewUsers(db), sessions, logger)
	events := controllers.NewEventController(store.NewEvents(db), logger)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))
	router.Use(sessions.Resolve())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Hello from my server"})
	})
	router.GET("/healthz", healthCheck(mongoClient, redisClient))

	router.POST("/users", auth.Register)
	router.GET("/users", auth.ListUsers)
	router.POST("/login", auth.Login)
	router.POST("/logout", middleware.RequireAuth(), auth.Logout)
	router.GET("/check-auth", auth.CheckAuth)
	router.GET("/protected", middleware.RequireAuth(), auth.Protected)

	router.GET("/events", events.ListAll)
	router.GET("/events/filter", events.Filter)
	router.GET("/my-events", middleware.RequireAuth(), events.ListMine)
	router.POST("/events", middleware.RequireAuth(), events.Create)
	router.PATCH("/events/:id", middleware.RequireAuth(), events.Update)
	router.DELETE("/events/:id", middleware.RequireAuth(), events.Delete)
	router.POST("/events/:id/join", middleware.RequireAuth(), events.Join)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("mongo disconnect failed")
	}
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close failed")
	}

	logger.Info().Msg("server exited")
}

func healthCheck(mongoClient *mongo.Client, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := mongoClient.Ping(ctx, nil); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "mongo": err.Error()})
			return
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "redis": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
