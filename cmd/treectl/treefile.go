package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"treeforge/domain/core/aggregates"
	"treeforge/domain/core/valueobjects"
)

// treeFile is the YAML layout read by every command:
//
//	nodes:
//	  - {id: 1, color: red}
//	  - {id: 2, color: green, parent: 1}
//
// A node without a parent is a root. Children keep file order.
type treeFile struct {
	Nodes []nodeEntry `yaml:"nodes"`
}

type nodeEntry struct {
	ID     int    `yaml:"id"`
	Color  string `yaml:"color"`
	Parent int    `yaml:"parent"`
}

func loadTree(path string) (*aggregates.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	snap, err := parseTree(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

func parseTree(r io.Reader) (*aggregates.Snapshot, error) {
	var doc treeFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid tree file: %w", err)
	}

	specs := make([]aggregates.NodeSpec, 0, len(doc.Nodes))
	for _, n := range doc.Nodes {
		color, err := valueobjects.ParseColor(n.Color)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", n.ID, err)
		}
		specs = append(specs, aggregates.NodeSpec{
			ID:     valueobjects.NodeID(n.ID),
			Color:  color,
			Parent: valueobjects.NodeID(n.Parent),
		})
	}
	return aggregates.NewSnapshot(specs)
}
