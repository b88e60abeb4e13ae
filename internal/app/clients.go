package app

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/verifeye-backend/internal/platform/llm"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
	"github.com/yungbote/verifeye-backend/internal/platform/redisdb"
)

type Clients struct {
	LLM   llm.Client
	Redis *goredis.Client
}

// wireClients dials the outbound dependencies. Redis is optional; the LLM client is only
// required when this process runs the worker.
func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		rdb, err := redisdb.NewClient(ctx, log, cfg.Redis)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		out.Redis = rdb
	}

	if cfg.RunWorker {
		client, err := llm.New(ctx, cfg.LLMProvider, log)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init llm client: %w", err)
		}
		out.LLM = client
	}
	return out, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
		c.Redis = nil
	}
}
