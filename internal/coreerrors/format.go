package coreerrors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/fatih/color"
)

// Formatter renders a CoreError for one output surface. A terminal
// session picks Plain or ANSI depending on whether output is a tty
// (spec.md §6); an LSP or CI consumer picks JSON.
type Formatter interface {
	Format(e *CoreError) string
}

// PlainFormatter renders a CoreError as an uncolored, single-line-per-field
// diagnostic, grounded on TypeCheckError.Error's field ordering.
type PlainFormatter struct{}

func (PlainFormatter) Format(e *CoreError) string {
	_, desc := Describe(e.Code)
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s: [%s] %s", e.Loc, e.Code, desc)
	if e.Sym.Name != "" {
		fmt.Fprintf(&buf, " (%s)", e.Sym)
	}
	if e.Expected != nil && e.Actual != nil {
		fmt.Fprintf(&buf, "\n  expected: %s\n  actual:   %s", e.Expected, e.Actual)
	} else if e.Actual != nil {
		fmt.Fprintf(&buf, "\n  %s", e.Actual)
	}
	if e.Note != "" {
		fmt.Fprintf(&buf, "\n  note: %s", e.Note)
	}
	for _, loc := range e.Secondary {
		fmt.Fprintf(&buf, "\n  also: %s", loc)
	}
	return buf.String()
}

// ANSIFormatter wraps PlainFormatter's fields in fatih/color styling,
// grounded on the teacher's use of fatih/color in cmd/ailang and
// internal/repl for colorized terminal output.
type ANSIFormatter struct{}

func (ANSIFormatter) Format(e *CoreError) string {
	_, desc := Describe(e.Code)
	bold := color.New(color.Bold)
	red := color.New(color.FgRed, color.Bold)
	cyan := color.New(color.FgCyan)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s: %s %s", bold.Sprint(e.Loc), red.Sprintf("[%s]", e.Code), desc)
	if e.Sym.Name != "" {
		fmt.Fprintf(&buf, " (%s)", cyan.Sprint(e.Sym))
	}
	if e.Expected != nil && e.Actual != nil {
		fmt.Fprintf(&buf, "\n  expected: %s\n  actual:   %s", cyan.Sprint(e.Expected), cyan.Sprint(e.Actual))
	} else if e.Actual != nil {
		fmt.Fprintf(&buf, "\n  %s", cyan.Sprint(e.Actual))
	}
	if e.Note != "" {
		fmt.Fprintf(&buf, "\n  note: %s", e.Note)
	}
	for _, loc := range e.Secondary {
		fmt.Fprintf(&buf, "\n  also: %s", bold.Sprint(loc))
	}
	return buf.String()
}

// jsonError is the wire shape for JSONFormatter, kept separate from
// CoreError so coretypes.Type values are rendered as strings rather than
// marshaled structurally.
type jsonError struct {
	Code      string   `json:"code"`
	Category  string   `json:"category"`
	Message   string   `json:"message"`
	Loc       string   `json:"loc"`
	Secondary []string `json:"secondary,omitempty"`
	Expected  string   `json:"expected,omitempty"`
	Actual    string   `json:"actual,omitempty"`
	Symbol    string   `json:"symbol,omitempty"`
	Note      string   `json:"note,omitempty"`
}

// JSONFormatter renders a CoreError as deterministic JSON, grounded on
// internal/errors/json_encoder.go's Encoded shape and
// internal/schema/registry.go's MarshalDeterministic (sorted-key
// re-marshal) idiom, reimplemented here since this module does not carry
// the teacher's schema-versioning package.
type JSONFormatter struct{}

func (JSONFormatter) Format(e *CoreError) string {
	category, desc := Describe(e.Code)
	je := jsonError{
		Code:     string(e.Code),
		Category: string(category),
		Message:  desc,
		Loc:      e.Loc.String(),
		Note:     e.Note,
	}
	for _, loc := range e.Secondary {
		je.Secondary = append(je.Secondary, loc.String())
	}
	if e.Expected != nil {
		je.Expected = e.Expected.String()
	}
	if e.Actual != nil {
		je.Actual = e.Actual.String()
	}
	if e.Sym.Name != "" {
		je.Symbol = e.Sym.String()
	}
	data, err := marshalDeterministic(je)
	if err != nil {
		return fmt.Sprintf(`{"code":%q,"error":"encoding failed"}`, e.Code)
	}
	return string(data)
}

func marshalDeterministic(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return raw, nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		buf.Write(kb)
		buf.WriteByte(':')
		vb, _ := json.Marshal(m[k])
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
