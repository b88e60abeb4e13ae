package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/verifeye-backend/internal/platform/gemini"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
	"github.com/yungbote/verifeye-backend/internal/platform/openai"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Client is the structured-generation contract shared by every provider.
type Client interface {
	GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error)
	GenerateText(ctx context.Context, system string, user string) (string, error)
}

var (
	_ Client = (openai.Client)(nil)
	_ Client = (*gemini.Client)(nil)
)

// New builds the client for provider using that provider's env configuration.
func New(ctx context.Context, provider string, log *logger.Logger) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderOpenAI, "":
		return openai.NewClient(log)
	case ProviderGemini:
		return gemini.NewClient(ctx, log, gemini.ConfigFromEnv())
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", provider)
	}
}
