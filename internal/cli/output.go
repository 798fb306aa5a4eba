package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ontoloviz/ontoloviz/pkg/pipeline"
)

// stdoutPath writes a single artifact to standard output.
const stdoutPath = "-"

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	base      string // Path the output names are derived from
	output    string
	out       io.Writer
}

// writeArtifacts writes each artifact to its own file. A single format
// goes to output when it is set; several formats share the base name
// derived from output, or from the input when output is empty.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	if p.output == stdoutPath {
		if len(p.formats) != 1 {
			return nil, fmt.Errorf("writing to stdout needs exactly one format, got %d", len(p.formats))
		}
		_, err := p.out.Write(p.artifacts[p.formats[0]])
		return nil, err
	}

	var paths []string
	for _, format := range p.formats {
		path := basePath(p.output, p.base) + "." + format
		if len(p.formats) == 1 && p.output != "" {
			path = p.output
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, p.artifacts[format], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath strips a known format extension from output, or derives the
// base from input when output is empty.
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
