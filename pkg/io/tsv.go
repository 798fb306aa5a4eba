package io

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ontoloviz/ontoloviz/pkg/errors"
	"github.com/ontoloviz/ontoloviz/pkg/ontology"
)

// Column names of the TSV layout.
const (
	ColID          = "ID"
	ColParent      = "Parent"
	ColLabel       = "Label"
	ColDescription = "Description"
	ColComment     = "Comment"
	ColCount       = "Count"
	ColColor       = "Color"
)

// Columns is the column order written by [WriteTSV].
var Columns = []string{ColID, ColParent, ColLabel, ColDescription, ColCount, ColColor}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	return cr
}

// ReadTSV reads rows from a tab-separated stream with a header line.
func ReadTSV(r io.Reader) ([]ontology.Row, error) {
	cr := newReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "empty input: header line missing")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read header")
	}

	cols := make(map[string]int, len(header))
	names := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		names[i] = h
		cols[strings.ToLower(h)] = i
	}
	if _, ok := cols[strings.ToLower(ColID)]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "header has no %s column", ColID)
	}
	known := map[string]bool{strings.ToLower(ColComment): true}
	for _, c := range Columns {
		known[strings.ToLower(c)] = true
	}

	var rows []ontology.Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read row %d", len(rows)+2)
		}
		field := func(name string) string {
			i, ok := cols[strings.ToLower(name)]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		row := ontology.Row{
			ID:          field(ColID),
			Parent:      field(ColParent),
			Label:       field(ColLabel),
			Description: field(ColDescription),
			Comment:     field(ColComment),
			Count:       field(ColCount),
			Color:       field(ColColor),
		}
		for i, name := range names {
			if known[strings.ToLower(name)] || name == "" || i >= len(rec) || rec[i] == "" {
				continue
			}
			if row.Meta == nil {
				row.Meta = ontology.Metadata{}
			}
			row.Meta[name] = rec[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ImportTSV reads rows from a file. This is a convenience wrapper around
// [ReadTSV].
func ImportTSV(path string) ([]ontology.Row, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTSV(f)
}

// WriteTSV writes every node of the forest, branch by branch, in the
// column order of [Columns]. Sentinel counts are written as 0.
func WriteTSV(f *ontology.Forest, w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, b := range f.Branches() {
		for _, n := range b.Nodes() {
			rec := []string{n.ID, n.ParentID, n.Label, n.Description, FormatCount(n.Count), n.Color}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("write %s: %w", n.ID, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportTSV writes the forest to a file at path.
func ExportTSV(f *ontology.Forest, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()
	return WriteTSV(f, out)
}

// FormatCount formats a count for output. Sentinels become 0 and whole
// numbers are written without a fractional part.
func FormatCount(v float64) string {
	if v == ontology.Zero || v == ontology.FakeOne {
		return "0"
	}
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
