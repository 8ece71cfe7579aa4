package inspect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/strawket/strawket-go/pkg/dynamic"
	"github.com/strawket/strawket-go/pkg/wire"
)

// Format selects an output rendering.
type Format uint8

const (
	FormatText Format = iota
	FormatJSON
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", f)
	}
}

// ParseFormat parses "text", "json" or "yaml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("unknown format %q (want text, json or yaml)", s)
}

// Formatter formats wire values for display.
type Formatter struct {
	// ShowKinds appends the wire kind to every text scalar.
	ShowKinds bool

	// IndentWidth is the number of spaces per indent level.
	IndentWidth int
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{IndentWidth: 2}
}

func (f *Formatter) indentWidth() int {
	if f.IndentWidth <= 0 {
		return 2
	}
	return f.IndentWidth
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	return strings.Repeat(" ", depth*f.indentWidth()) + content
}

// FormatValue formats a scalar on one line. Containers are summarized.
func (f *Formatter) FormatValue(v wire.Value) string {
	var s string
	switch v.Kind() {
	case wire.KindNil:
		s = "null"
	case wire.KindBool:
		b, _ := v.AsBool()
		s = strconv.FormatBool(b)
	case wire.KindInt:
		i, _ := v.AsInt()
		s = strconv.FormatInt(i, 10)
	case wire.KindFloat:
		fl, _ := v.AsFloat()
		s = formatFloat(fl)
	case wire.KindString:
		str, _ := v.AsString()
		s = strconv.Quote(str)
	case wire.KindBytes:
		b, _ := v.AsBytes()
		s = fmt.Sprintf("0x%x", b)
	case wire.KindSeq:
		s = fmt.Sprintf("[%d items]", v.Len())
	case wire.KindMap:
		s = fmt.Sprintf("{%d keys}", v.Len())
	}
	if f.ShowKinds {
		s += " (" + v.Kind().String() + ")"
	}
	return s
}

// formatFloat keeps integral floats distinguishable from integers.
func formatFloat(fl float64) string {
	if math.IsInf(fl, 0) || math.IsNaN(fl) {
		return strconv.FormatFloat(fl, 'g', -1, 64)
	}
	s := strconv.FormatFloat(fl, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Text renders v as an indented tree, one key or item per line.
func (f *Formatter) Text(v wire.Value) string {
	var sb strings.Builder
	f.writeText(&sb, v, 0)
	return sb.String()
}

func (f *Formatter) writeText(sb *strings.Builder, v wire.Value, depth int) {
	switch v.Kind() {
	case wire.KindMap:
		if v.Len() == 0 {
			sb.WriteString(f.Indent(depth, "{}\n"))
			return
		}
		for _, p := range v.Pairs() {
			f.writeEntry(sb, p.Key+":", p.Value, depth)
		}
	case wire.KindSeq:
		if v.Len() == 0 {
			sb.WriteString(f.Indent(depth, "[]\n"))
			return
		}
		for _, item := range v.Items() {
			f.writeEntry(sb, "-", item, depth)
		}
	default:
		sb.WriteString(f.Indent(depth, f.FormatValue(v)+"\n"))
	}
}

func (f *Formatter) writeEntry(sb *strings.Builder, label string, v wire.Value, depth int) {
	if (v.Kind() == wire.KindMap || v.Kind() == wire.KindSeq) && v.Len() > 0 {
		sb.WriteString(f.Indent(depth, label+"\n"))
		f.writeText(sb, v, depth+1)
		return
	}
	var s string
	switch {
	case v.Kind() == wire.KindMap:
		s = "{}"
	case v.Kind() == wire.KindSeq:
		s = "[]"
	default:
		s = f.FormatValue(v)
	}
	sb.WriteString(f.Indent(depth, label+" "+s+"\n"))
}

// JSON renders v as indented JSON in wire order. Bytes become base64
// strings; NaN and infinities are rejected.
func (f *Formatter) JSON(v wire.Value) ([]byte, error) {
	compact, err := dynamic.FromWire(v).MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", strings.Repeat(" ", f.indentWidth())); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// YAML renders v as a YAML document with explicit tags where the plain
// form would be ambiguous.
func (f *Formatter) YAML(v wire.Value) ([]byte, error) {
	var out bytes.Buffer
	enc := yaml.NewEncoder(&out)
	enc.SetIndent(f.indentWidth())
	if err := enc.Encode(dynamic.FromWire(v).YAML()); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Render writes v to w in the given format.
func (f *Formatter) Render(w io.Writer, v wire.Value, format Format) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = f.JSON(v)
	case FormatYAML:
		data, err = f.YAML(v)
	default:
		data = []byte(f.Text(v))
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
