package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/knowledgeintel/ragserver/internal/domain"
	"github.com/knowledgeintel/ragserver/internal/port"
)

const (
	// maxContextChars is the context budget per generation prompt.
	// Truncation keeps the start, which holds the best-ranked material.
	maxContextChars = 6000

	maxAttempts = 3
	retryDelay  = 2 * time.Second
)

// Fixed user-facing degradation messages. The caller never sees a raw error
// from the generator.
const (
	msgInvalidQuestion = "Invalid question."
	msgNoContext       = "I don't have any relevant information to answer that question."
	msgEmptyResponse   = "Unable to generate an answer at the moment."
	msgUnavailable     = "The service is temporarily unavailable. Please try again later."
)

// Generator produces grounded answers from retrieved context. It holds no
// per-call state and is safe for concurrent use.
type Generator struct {
	llm port.ChatProvider

	// sleep is swapped out in tests to avoid real backoff delays.
	sleep func(ctx context.Context, d time.Duration)
}

// NewGenerator creates a generator over the given chat provider.
func NewGenerator(llm port.ChatProvider) *Generator {
	return &Generator{llm: llm, sleep: sleepContext}
}

// Generate builds a role-scoped prompt from query and context and calls the
// LLM with bounded retries. Empty query or context short-circuit with fixed
// messages and no LLM call; collaborator failures degrade to a fixed
// apology after the final attempt.
func (g *Generator) Generate(ctx context.Context, query, retrievedContext string, role domain.Role) string {
	if strings.TrimSpace(query) == "" {
		return msgInvalidQuestion
	}
	if strings.TrimSpace(retrievedContext) == "" {
		return msgNoContext
	}

	// The budget counts characters, not bytes, so multi-byte text is never
	// cut mid-rune.
	if runes := []rune(retrievedContext); len(runes) > maxContextChars {
		slog.Warn("context truncated", "from", len(runes), "to", maxContextChars)
		retrievedContext = string(runes[:maxContextChars])
	}

	systemPrompt := buildSystemPrompt(role)
	userPrompt := buildUserPrompt(query, retrievedContext)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		slog.Info("generating answer", "attempt", attempt, "max_attempts", maxAttempts, "role", role)

		answer, err := g.llm.Chat(ctx, systemPrompt, userPrompt)
		if err == nil {
			answer = strings.TrimSpace(answer)
			if answer == "" {
				return msgEmptyResponse
			}
			return answer
		}

		slog.Error("llm call failed", "attempt", attempt, "error", err)
		if attempt < maxAttempts {
			g.sleep(ctx, retryDelay)
		}
	}

	return msgUnavailable
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
