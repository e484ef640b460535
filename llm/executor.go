package llm

import (
	"context"
	"time"

	"imagequeue/shared/models"
)

// TaskSpec is one image the analysis asked for: the prompt sent to the
// image endpoint and a short human-readable description.
type TaskSpec struct {
	Prompt      string `json:"prompt"`
	Description string `json:"description"`
}

// Analysis is the structured result of analyzing a user request.
// An empty Tasks slice means no image generation was requested.
type Analysis struct {
	Analysis string     `json:"analysis"`
	Tasks    []TaskSpec `json:"tasks"`
}

// Executor performs the two remote calls of the system. Implementations are
// stateless with respect to the chat store; all side effects are confined to
// the network exchange.
type Executor interface {
	// Analyze turns free-text user input into zero or more image prompts.
	Analyze(ctx context.Context, userText string) (*Analysis, error)

	// Render generates a single image for prompt and returns its URL.
	Render(ctx context.Context, prompt string, quality models.ImageQuality, size models.ImageSize) (string, error)
}

// Config contains configuration for remote executors.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// DefaultTimeout for remote requests.
const DefaultTimeout = 30 * time.Second
