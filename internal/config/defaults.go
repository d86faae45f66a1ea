package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Service ServiceConfig `json:"service"`
	Run     RunConfig     `json:"run"`
	UI      UIConfig      `json:"ui"`
}

type ServiceConfig struct {
	// BaseURL of the pipe service
	BaseURL string `json:"base_url"` // Default: https://api.langbase.com

	// APIKeyEnv names the environment variable holding the service key
	APIKeyEnv string `json:"api_key_env"` // Default: PIPE_API_KEY

	// LLMKeyEnv names the environment variable holding the provider key
	// forwarded in local-dev mode
	LLMKeyEnv string `json:"llm_key_env"` // Default: LLM_API_KEY

	// Production elides the pipe definition from requests
	Production bool `json:"production"` // Default: true
}

type RunConfig struct {
	// MaxCalls bounds tool-execution resubmissions per run
	MaxCalls int `json:"max_calls"` // Default: 100

	// SendFullHistory resends the whole conversation on follow-up calls
	// instead of relying on server-side thread memory
	SendFullHistory bool `json:"send_full_history"` // Default: false
}

type UIConfig struct {
	// RenderMarkdown renders assistant messages through glamour
	RenderMarkdown bool `json:"render_markdown"` // Default: true
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			BaseURL:    "https://api.langbase.com",
			APIKeyEnv:  "PIPE_API_KEY",
			LLMKeyEnv:  "LLM_API_KEY",
			Production: true,
		},
		Run: RunConfig{
			MaxCalls:        100,
			SendFullHistory: false,
		},
		UI: UIConfig{
			RenderMarkdown: true,
		},
	}
}
