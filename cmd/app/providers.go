package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/arizet/hashtagd/internal/domain/hashtag"
	"github.com/arizet/hashtagd/internal/infra/config"
	"github.com/arizet/hashtagd/internal/infra/historyrepo"
	"github.com/arizet/hashtagd/internal/infra/llm/ollama"
	"github.com/arizet/hashtagd/internal/infra/tagstore"
	"github.com/arizet/hashtagd/internal/infra/tokenizer"
)

func provideHashtagConfig(cfg *config.Config) hashtag.Config {
	return hashtag.Config{
		Model:            cfg.LLM.Model,
		Temperature:      cfg.LLM.Temperature,
		Prompt:           cfg.Hashtags.Prompt,
		DefaultCount:     cfg.Hashtags.DefaultCount,
		MaxCount:         cfg.Hashtags.MaxCount,
		CacheTTL:         cfg.Hashtags.CacheTTL,
		HistoryLimit:     cfg.Hashtags.HistoryLimit,
		PromptTokenLimit: cfg.LLM.PromptTokenLimit,
	}
}

func provideEngineClient(cfg *config.Config) *ollama.Client {
	return ollama.NewClient(cfg.LLM.BaseURL, cfg.LLM.RequestTimeout)
}

func provideHistory(cfg *config.Config) hashtag.History {
	return historyrepo.NewMemoryRepository(cfg.Hashtags.HistoryLimit)
}

func provideTokenCounter(logger *slog.Logger) hashtag.TokenCounter {
	return tokenizer.NewCounter(logger)
}

func provideStore(cfg *config.Config, logger *slog.Logger) hashtag.Store {
	if cfg.Cache.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return tagstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return tagstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
		} else {
			logger.Info("valkey result cache enabled", "addr", cfg.Cache.Addr)
			return tagstore.NewValkeyStore(client, "tags")
		}
	}
	return tagstore.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Cache.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Cache.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Cache.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
