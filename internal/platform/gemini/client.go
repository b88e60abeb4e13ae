package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/yungbote/verifeye-backend/internal/observability"
	"github.com/yungbote/verifeye-backend/internal/platform/envutil"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
	"github.com/yungbote/verifeye-backend/internal/platform/promptstyle"
)

const providerName = "gemini"

// Client generates content through the Gemini API. It satisfies the same
// GenerateJSON/GenerateText contract as the OpenAI client.
type Client struct {
	log         *logger.Logger
	client      *genai.Client
	model       string
	temperature *float32
}

type Config struct {
	APIKey      string
	Model       string
	Temperature *float32
}

func ConfigFromEnv() Config {
	cfg := Config{
		APIKey: envutil.String("GEMINI_API_KEY", ""),
		Model:  envutil.String("GEMINI_MODEL", "gemini-2.5-flash"),
	}
	t := float32(envutil.Float("GEMINI_TEMPERATURE", 0.8))
	cfg.Temperature = &t
	return cfg
}

func NewClient(ctx context.Context, log *logger.Logger, cfg Config) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Client{
		log:         log.With("service", "GeminiClient"),
		client:      gc,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

func (c *Client) generate(ctx context.Context, system, user string, cfg *genai.GenerateContentConfig) (string, error) {
	cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	cfg.Temperature = c.temperature

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(user), cfg)
	if err != nil {
		observability.Current().ObserveLLMRequest(providerName, c.model, "error", time.Since(start), 0, 0)
		return "", err
	}
	in, out := 0, 0
	if resp.UsageMetadata != nil {
		in = int(resp.UsageMetadata.PromptTokenCount)
		out = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	observability.Current().ObserveLLMRequest(providerName, c.model, "200", time.Since(start), in, out)

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("gemini returned no text")
	}
	return text, nil
}

func (c *Client) GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error) {
	if schema == nil {
		return nil, errors.New("schema required")
	}
	text, err := c.generate(ctx, promptstyle.ApplySystem(system, "json"), user, &genai.GenerateContentConfig{
		ResponseMIMEType:   "application/json",
		ResponseJsonSchema: schema,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini %s: %w", schemaName, err)
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, fmt.Errorf("failed to parse model JSON: %w", err)
	}
	return obj, nil
}

func (c *Client) GenerateText(ctx context.Context, system string, user string) (string, error) {
	return c.generate(ctx, promptstyle.ApplySystem(system, "text"), user, &genai.GenerateContentConfig{})
}
