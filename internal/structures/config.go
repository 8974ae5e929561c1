package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type ApiConfig struct {
	BaseURL string        `yaml:"baseUrl" validate:"required|url"`
	Timeout time.Duration `yaml:"timeout" validate:"required|min:1"`
}

type StorageConfig struct {
	FilePath string `yaml:"filePath" validate:"required|unixPath"`
	Compress bool   `yaml:"compress"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

// CacheConfig controls the upstream GET response cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type PinnedConfig struct {
	// CacheSize is the hydrated summary cache size in MB.
	CacheSize       int           `yaml:"cacheSize" validate:"required|min:1"`
	RefreshInterval time.Duration `yaml:"refreshInterval"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server        `yaml:"webServer"`
	Api       ApiConfig     `yaml:"api"`
	Storage   StorageConfig `yaml:"storage"`
	Logger    LoggerConfig  `yaml:"logger"`
	Cache     CacheConfig   `yaml:"cache"`
	Pinned    PinnedConfig  `yaml:"pinned"`
	Metrics   MetricsConfig `yaml:"metrics"`
}
