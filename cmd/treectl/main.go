// Command treectl analyzes colored trees described in YAML files: canonical
// signatures, duplicate subtrees, bounded embeddings and duplicate-free commits.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
