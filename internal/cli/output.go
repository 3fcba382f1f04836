package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/hydrograph/pkg/pipeline"
)

// Suffixes of the legend outputs.
const (
	suffixDocument = "_w_cb.pdf"
	suffixLegend   = "_cb"
)

// basePath returns the output path without extension. It defaults to the
// input path; a known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactPaths maps artifact keys to the files they are written to.
func artifactPaths(base string, keys []string) map[string]string {
	paths := make(map[string]string, len(keys))
	for _, k := range keys {
		switch k {
		case pipeline.ArtifactDocument:
			paths[k] = base + suffixDocument
		case pipeline.ArtifactLegend:
			paths[k] = base + suffixLegend + ".png"
		default:
			paths[k] = base + "." + k
		}
	}
	return paths
}

// writeArtifacts writes each artifact to its path, in keys order, and
// prints the written files.
func writeArtifacts(artifacts map[string][]byte, base string, keys []string) error {
	paths := artifactPaths(base, keys)
	for _, k := range keys {
		data, ok := artifacts[k]
		if !ok {
			return fmt.Errorf("missing %s output", k)
		}
		if err := writeFile(paths[k], data); err != nil {
			return err
		}
	}
	return nil
}

// writeFile writes a single output file and prints its path.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(path)
	return nil
}

// formatRange formats a legend range for display.
func formatRange(lo, hi float64) string {
	return fmt.Sprintf("[%.4g, %.4g]", lo, hi)
}
