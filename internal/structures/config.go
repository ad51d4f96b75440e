package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type ApiConfig struct {
	BaseUrl     string        `yaml:"baseUrl" validate:"required|fullUrl"`
	ClientToken string        `yaml:"clientToken"`
	UserAgent   string        `yaml:"userAgent"`
	Timeout     time.Duration `yaml:"timeout" validate:"required"`
}

type ReloadConfig struct {
	RateLimitInterval time.Duration `yaml:"rateLimitInterval" validate:"required"`
	RateLimitBackoff  time.Duration `yaml:"rateLimitBackoff" validate:"required"`
	LockoutCooldown   time.Duration `yaml:"lockoutCooldown" validate:"required"`
	AutoInterval      time.Duration `yaml:"autoInterval"`
	OnStart           bool          `yaml:"onStart"`
}

type StorageConfig struct {
	Dir string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type AccountConfig struct {
	ID       string `yaml:"id"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server          `yaml:"webServer"`
	Logger    LoggerConfig    `yaml:"logger"`
	Api       ApiConfig       `yaml:"api"`
	Reload    ReloadConfig    `yaml:"reload"`
	Storage   StorageConfig   `yaml:"storage"`
	Cache     CacheConfig     `yaml:"cache"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Accounts  []AccountConfig `yaml:"accounts"`
}
