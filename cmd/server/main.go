package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/knowledgeintel/ragserver/internal/adapter/ai"
	"github.com/knowledgeintel/ragserver/internal/adapter/store"
	"github.com/knowledgeintel/ragserver/internal/chunker"
	"github.com/knowledgeintel/ragserver/internal/handler"
	"github.com/knowledgeintel/ragserver/internal/middleware"
	"github.com/knowledgeintel/ragserver/internal/port"
	"github.com/knowledgeintel/ragserver/internal/service"
	"github.com/knowledgeintel/ragserver/pkg/config"

	_ "github.com/lib/pq"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("starting knowledge intelligence API",
		"port", cfg.Port,
		"embed_provider", cfg.EmbedProvider,
		"chat_provider", cfg.ChatProvider,
		"embedding_dimension", cfg.EmbeddingDimension,
	)

	// ── Database ─────────────────────────────────────────────────────────
	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()

	vectorStore := store.NewVectorStore(pgStore, cfg.EmbeddingDimension)

	// ── AI providers ─────────────────────────────────────────────────────
	embedder, err := buildEmbedder(cfg)
	if err != nil {
		slog.Error("failed to configure embedder", "error", err)
		os.Exit(1)
	}
	chat, err := buildChatProvider(cfg)
	if err != nil {
		slog.Error("failed to configure chat provider", "error", err)
		os.Exit(1)
	}

	// ── Services ─────────────────────────────────────────────────────────
	retriever := service.NewRetriever(embedder, vectorStore)
	generator := service.NewGenerator(chat)
	ingestor := service.NewIngestor(embedder, vectorStore, chunker.Config{
		ChunkSize: cfg.ChunkSize,
		Overlap:   cfg.ChunkOverlap,
		MinChunk:  chunker.DefaultConfig().MinChunk,
	})

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", middleware.RoleHeader},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
	}))
	app.Use(middleware.RoleMiddleware())
	app.Use(middleware.AuditMiddleware(pgStore))

	// ── Routes ───────────────────────────────────────────────────────────
	api := app.Group("/api/v1")

	handler.NewRAGHandler(retriever, generator, cfg.TopK, cfg.SimilarityThreshold).Register(api)
	handler.NewUploadHandler(ingestor).Register(api)
	handler.NewHealthHandler(cfg.AppName, vectorStore, embedder, chat).Register(api)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// buildEmbedder selects the embedding provider from configuration. All call
// sites depend on port.Embedder, so swapping vendors is a config change.
func buildEmbedder(cfg *config.Config) (port.Embedder, error) {
	switch cfg.EmbedProvider {
	case "ollama":
		return ai.NewOllamaEmbedder(ai.OllamaConfig{
			BaseURL:   cfg.OllamaEmbedURL,
			Model:     cfg.OllamaEmbedModel,
			Token:     cfg.OllamaEmbedToken,
			Dimension: cfg.EmbeddingDimension,
			Probe:     ai.ProbeMode(cfg.EmbedProbe),
		}), nil
	case "openai":
		return ai.NewOpenAIEmbedder(ai.OpenAIConfig{
			BaseURL:   cfg.OpenAIBaseURL,
			Model:     cfg.OpenAIEmbedModel,
			Token:     cfg.OpenAIToken,
			Dimension: cfg.EmbeddingDimension,
			Probe:     ai.ProbeMode(cfg.EmbedProbe),
		}), nil
	case "huggingface":
		return ai.NewHuggingFaceEmbedder(ai.HuggingFaceConfig{
			BaseURL:   cfg.HFBaseURL,
			Model:     cfg.HFModel,
			Token:     cfg.HFToken,
			Dimension: cfg.EmbeddingDimension,
			Probe:     ai.ProbeMode(cfg.EmbedProbe),
		}), nil
	default:
		return nil, fmt.Errorf("unknown embed provider %q", cfg.EmbedProvider)
	}
}

// buildChatProvider selects the LLM provider from configuration.
func buildChatProvider(cfg *config.Config) (port.ChatProvider, error) {
	switch cfg.ChatProvider {
	case "ollama":
		return ai.NewOllamaChat(ai.OllamaConfig{
			BaseURL: cfg.OllamaChatURL,
			Model:   cfg.OllamaChatModel,
			Token:   cfg.OllamaChatToken,
			Probe:   ai.ProbeMode(cfg.ChatProbe),
		}), nil
	case "openai":
		return ai.NewOpenAIChat(ai.OpenAIConfig{
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIChatModel,
			Token:   cfg.OpenAIToken,
			Probe:   ai.ProbeMode(cfg.ChatProbe),
		}), nil
	default:
		return nil, fmt.Errorf("unknown chat provider %q", cfg.ChatProvider)
	}
}
