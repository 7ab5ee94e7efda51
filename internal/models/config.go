package models

// Config represents the service configuration
type Config struct {
	// Server config
	Port int    `yaml:"port"`
	Host string `yaml:"host"`

	// External PDF renderer
	Renderer RendererConfig `yaml:"renderer"`

	// Static assets (company logos)
	Assets AssetsConfig `yaml:"assets"`

	// Pipeline diagnostics
	Trace TraceConfig `yaml:"trace"`
}

// RendererConfig points at the external rendering service.
type RendererConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// AssetsConfig holds the base URL used to resolve relative logo paths.
type AssetsConfig struct {
	BaseURL string `yaml:"base_url"`
}

// TraceConfig enables per-stage JSON dumps of pipeline intermediates.
// Diagnostic only; failures are logged and ignored.
type TraceConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}
