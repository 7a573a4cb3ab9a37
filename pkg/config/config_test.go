package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadFromEnv(t *testing.T) {
	tests := []struct {
		name             string
		envVars          map[string]string
		expectedPort     string
		expectedMode     string
		expectedDuration time.Duration
	}{
		{
			name:             "defaults when nothing set",
			envVars:          map[string]string{},
			expectedPort:     "8000",
			expectedMode:     "isolated",
			expectedDuration: 3 * time.Second,
		},
		{
			name:             "uses PORT env var when set",
			envVars:          map[string]string{"PORT": "3000"},
			expectedPort:     "3000",
			expectedMode:     "isolated",
			expectedDuration: 3 * time.Second,
		},
		{
			name:             "uses RENDER_MODE env var when set",
			envVars:          map[string]string{"RENDER_MODE": "inline"},
			expectedPort:     "8000",
			expectedMode:     "inline",
			expectedDuration: 3 * time.Second,
		},
		{
			name:             "uses HIGHLIGHT_DURATION_MS env var when set",
			envVars:          map[string]string{"HIGHLIGHT_DURATION_MS": "500"},
			expectedPort:     "8000",
			expectedMode:     "isolated",
			expectedDuration: 500 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}

			cfg, err := LoadFromEnv()
			if err != nil {
				t.Fatalf("LoadFromEnv() error = %v", err)
			}

			if cfg.Server.Port != tt.expectedPort {
				t.Errorf("Port = %v, want %v", cfg.Server.Port, tt.expectedPort)
			}
			if cfg.Reader.RenderMode != tt.expectedMode {
				t.Errorf("RenderMode = %v, want %v", cfg.Reader.RenderMode, tt.expectedMode)
			}
			if cfg.Reader.HighlightDuration != tt.expectedDuration {
				t.Errorf("HighlightDuration = %v, want %v", cfg.Reader.HighlightDuration, tt.expectedDuration)
			}
		})
	}
}

func TestLoadFromEnv_InvalidIntUsesDefault(t *testing.T) {
	os.Clearenv()
	os.Setenv("CONTEXT_LIMIT", "not-a-number")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}

	if cfg.Reader.ContextLimit != 200 {
		t.Errorf("ContextLimit = %v, want %v (default)", cfg.Reader.ContextLimit, 200)
	}
}

func TestLoadFromEnv_ProxyList(t *testing.T) {
	os.Clearenv()
	os.Setenv("PROXY_URLS", "https://a.example/?u=%s, ,https://b.example/%s")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}

	want := []string{"https://a.example/?u=%s", "https://b.example/%s"}
	if len(cfg.Reader.ProxyURLs) != len(want) {
		t.Fatalf("ProxyURLs = %v, want %v", cfg.Reader.ProxyURLs, want)
	}
	for i := range want {
		if cfg.Reader.ProxyURLs[i] != want[i] {
			t.Errorf("ProxyURLs[%d] = %v, want %v", i, cfg.Reader.ProxyURLs[i], want[i])
		}
	}
}

func validConfig() Config {
	os.Clearenv()
	cfg, _ := LoadFromEnv()
	return *cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "empty port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: true,
			errMsg:  "port cannot be empty",
		},
		{
			name:    "invalid sanitize level",
			mutate:  func(c *Config) { c.Reader.SanitizeLevel = "everything" },
			wantErr: true,
			errMsg:  "sanitize level must be 'executable' or 'chrome'",
		},
		{
			name:    "invalid cache type",
			mutate:  func(c *Config) { c.Cache.Type = "invalid" },
			wantErr: true,
			errMsg:  "cache type must be 'redis', 'memory' or 'sqlite'",
		},
		{
			name: "redis type with empty address",
			mutate: func(c *Config) {
				c.Cache.Type = "redis"
				c.Cache.Redis.Address = ""
			},
			wantErr: true,
			errMsg:  "redis address cannot be empty when using redis cache",
		},
		{
			name:    "unknown render mode",
			mutate:  func(c *Config) { c.Reader.RenderMode = "frame" },
			wantErr: true,
			errMsg:  "render mode must be 'isolated' or 'inline'",
		},
		{
			name:    "unknown extract mode",
			mutate:  func(c *Config) { c.Reader.ExtractMode = "all" },
			wantErr: true,
			errMsg:  "extract mode must be 'blocks' or 'region'",
		},
		{
			name:    "proxy without placeholder",
			mutate:  func(c *Config) { c.Reader.ProxyURLs = []string{"https://proxy.example/"} },
			wantErr: true,
			errMsg:  "each proxy URL must contain exactly one %s placeholder",
		},
		{
			name:    "zero highlight duration",
			mutate:  func(c *Config) { c.Reader.HighlightDuration = 0 },
			wantErr: true,
			errMsg:  "highlight duration must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil && tt.errMsg != "" && err.Error() != tt.errMsg {
				t.Errorf("Validate() error = %v, want %v", err.Error(), tt.errMsg)
			}
		})
	}
}
