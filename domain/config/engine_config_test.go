package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadEngineConfig(t *testing.T) {
	tests := []struct {
		env      string
		maxNodes int
	}{
		{"production", 120},
		{"development", 500},
		{"staging", DefaultMaxNodes},
		{"", DefaultMaxNodes},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := LoadEngineConfig(tt.env)
			assert.Equal(t, DefaultSizeCap, cfg.SizeCap)
			assert.Equal(t, DefaultDepthCap, cfg.DepthCap)
			assert.Equal(t, tt.maxNodes, cfg.MaxNodes)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestEngineConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EngineConfig)
	}{
		{"zero size cap", func(c *EngineConfig) { c.SizeCap = 0 }},
		{"negative depth cap", func(c *EngineConfig) { c.DepthCap = -1 }},
		{"zero max nodes", func(c *EngineConfig) { c.MaxNodes = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultEngineConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestEngineConfig_Clone(t *testing.T) {
	cfg := DefaultEngineConfig()
	cp := cfg.Clone()
	cp.SizeCap = 3

	assert.Equal(t, DefaultSizeCap, cfg.SizeCap)
}
