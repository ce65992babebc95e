//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/arizet/hashtagd/internal/bootstrap"
	"github.com/arizet/hashtagd/internal/domain/hashtag"
	"github.com/arizet/hashtagd/internal/infra/config"
	"github.com/arizet/hashtagd/internal/infra/llm/ollama"
	httpiface "github.com/arizet/hashtagd/internal/interface/http"
	"github.com/arizet/hashtagd/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideHashtagConfig,
		provideEngineClient,
		provideHistory,
		provideStore,
		provideTokenCounter,
		hashtag.NewService,
		wire.Bind(new(hashtag.EngineClient), new(*ollama.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
