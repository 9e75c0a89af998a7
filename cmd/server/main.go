package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hdb-analytics/resale-chatbot/internal/answer"
	"github.com/hdb-analytics/resale-chatbot/internal/chatlog"
	"github.com/hdb-analytics/resale-chatbot/internal/intent"
	"github.com/hdb-analytics/resale-chatbot/internal/llm"
	"github.com/hdb-analytics/resale-chatbot/internal/query"
)

// main is the entry point for the application.
// Its primary role is the "Composition Root": it loads configuration,
// initializes all services, injects dependencies, and starts the server.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	buildInfo := GetBuildInfo()
	log.Printf("🚀 Starting HDB Resale Chatbot | Version: %s | Commit: %s", buildInfo.Version, buildInfo.GitCommit)

	// 1. LOAD CONFIGURATION
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("❌ FATAL: Configuration Error: %v", err)
	}
	log.Println("✅ Configuration loaded.")

	// 2. INITIALIZE SERVICES
	store, err := query.NewStore(cfg.DatabaseURL, cfg.PGMaxConn, cfg.PGMaxIdle, cfg.Limits)
	if err != nil {
		log.Fatalf("❌ FATAL: Could not connect to PostgreSQL: %v", err)
	}
	defer store.Close()
	log.Println("✅ PostgreSQL connected.")

	gemini, err := llm.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("❌ FATAL: Could not create Gemini client: %v", err)
	}
	defer gemini.Close()

	logs := chatlog.NewStore(cfg.MongoURI, cfg.MongoDBName)
	if cfg.MongoURI == "" {
		log.Println("WARNING: MONGODB_URI not set, chat logging disabled.")
	}

	resolver := intent.NewResolver(gemini)
	dispatcher := query.NewDispatcher(store)
	composer := answer.NewComposer(gemini)

	chatHandler := NewChatHandler(resolver, dispatcher, composer, logs, store, cfg.JWTSecret)
	log.Println("✅ All services initialized.")

	// 3. SETUP AND RUN THE WEB SERVER
	gin.SetMode(cfg.GinMode)
	engine := gin.Default()
	engine.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": buildInfo.Version})
	})

	api := engine.Group("/api/chatbot")
	{
		api.POST("", chatHandler.HandleChat)
		api.GET("/test-connections", chatHandler.HandleTestConnections)
	}

	srv := &http.Server{Addr: fmt.Sprintf(":%s", cfg.Port), Handler: engine}
	runServerWithGracefulShutdown(srv)
}

func corsConfig(allowedOrigins string) cors.Config {
	config := cors.DefaultConfig()
	if allowedOrigins == "*" {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = strings.Split(allowedOrigins, ",")
	}
	config.AllowHeaders = append(config.AllowHeaders, "Authorization")
	return config
}

// runServerWithGracefulShutdown handles the server lifecycle.
func runServerWithGracefulShutdown(srv *http.Server) {
	go func() {
		log.Printf("👂 Chatbot API is listening on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Listen error: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server shutdown failed:", err)
	}

	log.Println("👋 Server exited gracefully.")
}
