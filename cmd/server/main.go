package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/aurahealth/aura-be/internal/api"
	"github.com/aurahealth/aura-be/internal/api/middleware"
	"github.com/aurahealth/aura-be/internal/chat"
	"github.com/aurahealth/aura-be/internal/prompt"
	"github.com/aurahealth/aura-be/internal/session"
	"github.com/aurahealth/aura-be/internal/triage"
	"github.com/aurahealth/aura-be/internal/ws"
	"github.com/aurahealth/aura-be/pkg/deepseek"
	"github.com/aurahealth/aura-be/pkg/gemini"
	"github.com/aurahealth/aura-be/pkg/llm"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	port := getEnv("PORT", "8080")
	provider := getEnv("LLM_PROVIDER", "gemini")

	llmClient := newLLMClient(provider)
	log.Printf("✅ LLM provider: %s", provider)

	// Session state lives in memory only, for the lifetime of a session.
	sessions := session.NewStore(session.Config{
		Greeting:     prompt.Greeting,
		PromptWindow: 50,
		IdleTTL:      30 * time.Minute,
	})

	classifier := triage.NewClassifier(llmClient)
	promptBuilder := prompt.NewBuilder()
	engine := chat.NewEngine(classifier, sessions, promptBuilder, llmClient)

	sessionHandler := api.NewSessionHandler(engine, sessions)
	chatHandler := ws.NewChatHandler(engine, sessions)

	// Setup Gin router
	router := gin.Default()
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	sessionHandler.RegisterRoutes(router.Group("/api"))
	router.GET("/ws/chat", chatHandler.HandleChat)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("🚀 Server starting on http://localhost:%s", port)
		log.Printf("📝 API endpoints:")
		log.Printf("   POST   /api/sessions")
		log.Printf("   GET    /api/sessions/:id")
		log.Printf("   DELETE /api/sessions/:id")
		log.Printf("   GET    /api/sessions/:id/messages")
		log.Printf("   POST   /api/sessions/:id/messages")
		log.Printf("   WS     /ws/chat")
		log.Printf("")
		log.Printf("Press Ctrl+C to stop")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// newLLMClient builds the configured provider. A missing API key is fatal;
// there is nothing useful the service can do without one.
func newLLMClient(provider string) llm.Client {
	switch provider {
	case "deepseek":
		apiKey := os.Getenv("DEEPSEEK_API_KEY")
		if apiKey == "" {
			log.Fatal("DEEPSEEK_API_KEY is required when LLM_PROVIDER=deepseek")
		}
		return deepseek.NewHTTPClient(deepseek.Config{APIKey: apiKey})
	case "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			log.Fatal("GEMINI_API_KEY is required")
		}
		return gemini.NewHTTPClient(gemini.Config{
			APIKey: apiKey,
			Model:  getEnv("GEMINI_MODEL", "gemini-1.5-flash-latest"),
		})
	default:
		log.Fatalf("Unknown LLM_PROVIDER %q (expected gemini or deepseek)", provider)
		return nil
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
