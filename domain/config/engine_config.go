package config

import (
	pkgerrors "treeforge/pkg/errors"
)

// EngineConfig holds the tractability bounds of the tree engine.
type EngineConfig struct {
	// SizeCap is the largest pattern subtree the embedding checker evaluates.
	// Larger patterns are reported as non-embeddable without searching.
	SizeCap int `yaml:"size_cap" json:"size_cap"`

	// DepthCap is how many levels below the host node are offered as
	// candidates when placing the pattern's children.
	DepthCap int `yaml:"depth_cap" json:"depth_cap"`

	// MaxNodes bounds a working tree. The all-pairs pass is quadratic in it.
	MaxNodes int `yaml:"max_nodes" json:"max_nodes"`
}

const (
	DefaultSizeCap  = 12
	DefaultDepthCap = 8
	DefaultMaxNodes = 200
)

// DefaultEngineConfig returns the default engine configuration
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		SizeCap:  DefaultSizeCap,
		DepthCap: DefaultDepthCap,
		MaxNodes: DefaultMaxNodes,
	}
}

// ProductionEngineConfig keeps the interactive bounds and a tighter node limit
func ProductionEngineConfig() *EngineConfig {
	cfg := DefaultEngineConfig()
	cfg.MaxNodes = 120
	return cfg
}

// DevelopmentEngineConfig is more permissive for experimenting with larger trees
func DevelopmentEngineConfig() *EngineConfig {
	cfg := DefaultEngineConfig()
	cfg.MaxNodes = 500
	return cfg
}

// LoadEngineConfig picks the profile for an environment
func LoadEngineConfig(environment string) *EngineConfig {
	switch environment {
	case "production":
		return ProductionEngineConfig()
	case "development":
		return DevelopmentEngineConfig()
	default:
		return DefaultEngineConfig()
	}
}

// Validate checks that every bound is usable
func (c *EngineConfig) Validate() error {
	if c.SizeCap < 1 {
		return pkgerrors.NewValidationError("engine size cap must be at least 1")
	}
	if c.DepthCap < 1 {
		return pkgerrors.NewValidationError("engine depth cap must be at least 1")
	}
	if c.MaxNodes < 1 {
		return pkgerrors.NewValidationError("engine max nodes must be at least 1")
	}
	return nil
}

// Clone returns an independent copy
func (c *EngineConfig) Clone() *EngineConfig {
	cp := *c
	return &cp
}
