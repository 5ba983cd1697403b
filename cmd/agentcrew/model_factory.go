package main

import (
	"errors"
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/agentcrew/config"
	"github.com/hupe1980/agentcrew/model"
	"github.com/hupe1980/agentcrew/model/anthropic"
	"github.com/hupe1980/agentcrew/model/openai"
)

// newModel builds the configured chat model. Tests replace it.
var newModel = modelFromConfig

func modelFromConfig(cfg *config.Config) (model.Model, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		// Local OpenAI-compatible gateways usually run without a key.
		if cfg.OpenAI.APIKey == "" && cfg.OpenAI.BaseURL == "" {
			return nil, errors.New("openai.api_key is not set (export OPENAI_API_KEY or set openai.base_url)")
		}
		return openai.NewModel(func(o *openai.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
			o.Temperature = cfg.Temperature
			o.MaxCompletionTokens = cfg.MaxTokens
			o.APIKey = cfg.OpenAI.APIKey
			o.BaseURL = cfg.OpenAI.BaseURL
		}), nil

	case config.ProviderAnthropic:
		if cfg.Anthropic.APIKey == "" {
			return nil, errors.New("anthropic.api_key is not set (export ANTHROPIC_API_KEY)")
		}
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Model != "" {
				o.Model = anthropicsdk.Model(cfg.Model)
			}
			o.Temperature = cfg.Temperature
			o.MaxTokens = cfg.MaxTokens
			o.APIKey = cfg.Anthropic.APIKey
		}), nil

	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}
