package synth

import (
	"sync"

	openai "github.com/sashabaranov/go-openai"
	"github.com/zecrev/codez/config"
	"github.com/zecrev/codez/log"
)

var (
	client     *Client
	clientOnce sync.Once
)

// Client wraps the model backend for all synthesis kinds
type Client struct {
	api *openai.Client

	fastModel     string
	qualityModel  string
	analysisModel string
	imageModel    string
}

// Get returns the singleton synthesis client, or nil when no API key is configured
func Get() *Client {
	clientOnce.Do(func() {
		cfg := config.Get()

		if cfg.OpenAIAPIKey == "" {
			log.Warn().Msg("OPENAI_API_KEY not configured, synthesis disabled")
			return
		}

		clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
		if cfg.OpenAIBaseURL != "" && cfg.OpenAIBaseURL != "https://api.openai.com/v1" {
			clientConfig.BaseURL = cfg.OpenAIBaseURL
		}

		client = &Client{
			api:           openai.NewClientWithConfig(clientConfig),
			fastModel:     cfg.FastModel,
			qualityModel:  cfg.QualityModel,
			analysisModel: cfg.AnalysisModel,
			imageModel:    cfg.ImageModel,
		}

		log.Info().
			Str("fastModel", cfg.FastModel).
			Str("qualityModel", cfg.QualityModel).
			Str("baseURL", cfg.OpenAIBaseURL).
			Msg("synthesis client initialized")
	})

	return client
}
