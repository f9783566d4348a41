package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	domainconfig "treeforge/domain/config"
)

// engineFile is the on-disk layout of ENGINE_CONFIG_FILE:
//
//	engine:
//	  size_cap: 12
//	  depth_cap: 8
//	  max_nodes: 200
type engineFile struct {
	Engine domainconfig.EngineConfig `yaml:"engine"`
}

// LoadEngineFile overlays the YAML engine file at path onto base.
// Keys missing from the file keep base's values.
func LoadEngineFile(path string, base *domainconfig.EngineConfig) (*domainconfig.EngineConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open engine config: %w", err)
	}
	defer f.Close()

	doc := engineFile{Engine: *base.Clone()}
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse engine config %s: %w", path, err)
	}
	return &doc.Engine, nil
}
