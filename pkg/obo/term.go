package obo

import (
	"bufio"
	"io"
	"strings"

	"github.com/ontoloviz/ontoloviz/pkg/errors"
)

// maxLineSize bounds a single OBO line. ChEBI definitions run long.
const maxLineSize = 4 << 20

// Synonym is one synonym line of a term.
type Synonym struct {
	Text  string
	Scope string // EXACT, BROAD, NARROW or RELATED
}

// Term is one [Term] stanza.
type Term struct {
	ID         string
	Name       string
	Namespace  string
	Def        string
	Comment    string
	Xrefs      []string
	IsA        []string
	Synonyms   []Synonym
	IsObsolete bool
}

// ParseOptions configures [Parse].
type ParseOptions struct {
	KeepObsolete bool
}

// Parse reads every [Term] stanza from r in file order. A term id that
// occurs twice keeps its first position and the data of its last stanza.
func Parse(r io.Reader, opts ParseOptions) ([]*Term, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)

	var (
		terms []*Term
		index = make(map[string]int)
		cur   *Term
		line  int
	)
	flush := func() {
		if cur == nil || cur.ID == "" {
			cur = nil
			return
		}
		if cur.IsObsolete && !opts.KeepObsolete {
			cur = nil
			return
		}
		if i, ok := index[cur.ID]; ok {
			terms[i] = cur
		} else {
			index[cur.ID] = len(terms)
			terms = append(terms, cur)
		}
		cur = nil
	}

	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.HasPrefix(text, "[") {
			flush()
			if strings.TrimSpace(text) == "[Term]" {
				cur = &Term{}
			}
			continue
		}
		if cur == nil {
			continue
		}
		if strings.TrimSpace(text) == "" {
			flush()
			continue
		}

		tag, value, ok := strings.Cut(text, ":")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: missing tag separator", line)
		}
		value = strings.TrimSpace(value)
		switch tag {
		case "id":
			cur.ID = value
		case "name":
			cur.Name = value
		case "namespace":
			cur.Namespace = value
		case "def":
			cur.Def = quoted(value)
		case "comment":
			cur.Comment = value
		case "xref":
			cur.Xrefs = append(cur.Xrefs, firstField(value))
		case "is_a":
			if id := firstField(value); id != "" {
				cur.IsA = append(cur.IsA, id)
			}
		case "synonym":
			cur.Synonyms = append(cur.Synonyms, synonym(value))
		case "is_obsolete":
			cur.IsObsolete = value == "true"
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read line %d", line+1)
	}
	flush()
	return terms, nil
}

// firstField returns value up to the first space, dropping trailing
// "! name" comments and {qualifiers}.
func firstField(value string) string {
	if i := strings.IndexAny(value, " \t"); i >= 0 {
		return value[:i]
	}
	return value
}

// quoted extracts the text of a "quoted string" [refs] value, unescaping \".
// Values without a leading quote are returned as is.
func quoted(value string) string {
	if !strings.HasPrefix(value, `"`) {
		return value
	}
	var b strings.Builder
	for i := 1; i < len(value); i++ {
		c := value[i]
		if c == '\\' && i+1 < len(value) {
			i++
			b.WriteByte(value[i])
			continue
		}
		if c == '"' {
			break
		}
		b.WriteByte(c)
	}
	return b.String()
}

func synonym(value string) Synonym {
	s := Synonym{Text: quoted(value)}
	if end := closingQuote(value); end >= 0 {
		s.Scope = firstField(strings.TrimSpace(value[end+1:]))
	}
	return s
}

func closingQuote(value string) int {
	if !strings.HasPrefix(value, `"`) {
		return -1
	}
	for i := 1; i < len(value); i++ {
		switch value[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}
