package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ontoloviz/ontoloviz/pkg/errors"
	pkgio "github.com/ontoloviz/ontoloviz/pkg/io"
	"github.com/ontoloviz/ontoloviz/pkg/ontology"
	"github.com/ontoloviz/ontoloviz/pkg/render"
)

// Render generates output artifacts in the requested formats. Graph formats
// draw the whole forest, or only opts.Branch when it is set.
func Render(ctx context.Context, f *ontology.Forest, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var dot string
	for _, format := range opts.Formats {
		var buf bytes.Buffer
		switch format {
		case FormatJSON:
			if err := pkgio.WriteJSON(f, &buf); err != nil {
				return nil, fmt.Errorf("json: %w", err)
			}
		case FormatTSV:
			if err := pkgio.WriteTSV(f, &buf); err != nil {
				return nil, fmt.Errorf("tsv: %w", err)
			}
		default:
			if dot == "" {
				var err error
				if dot, err = graph(f, opts); err != nil {
					return nil, err
				}
			}
			data, err := render.Render(ctx, dot, format)
			if err != nil {
				return nil, err
			}
			buf.Write(data)
		}
		artifacts[format] = buf.Bytes()
	}
	return artifacts, nil
}

func graph(f *ontology.Forest, opts Options) (string, error) {
	if opts.Branch == "" {
		return render.ForestDOT(f, opts.Render), nil
	}
	b := f.Branch(opts.Branch)
	if b == nil {
		return "", errors.New(errors.ErrCodeNotFound, "branch %q not found", opts.Branch)
	}
	return render.ToDOT(b, opts.Render), nil
}
