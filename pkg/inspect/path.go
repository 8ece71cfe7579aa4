package inspect

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/strawket/strawket-go/pkg/wire"
)

// Path errors.
var (
	ErrEmptyPath     = errors.New("empty path")
	ErrInvalidPath   = errors.New("invalid path format")
	ErrInvalidNumber = errors.New("invalid index in path")
	ErrNotFound      = errors.New("path not found")
)

// Step is one element of a Path: a map key or a sequence index.
type Step struct {
	Key     string
	Index   int
	IsIndex bool
}

// String formats the step as it appears in a path.
func (s Step) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return s.Key
}

// Path selects a nested part of a wire value.
type Path struct {
	Steps []Step

	// Raw stores the original input string.
	Raw string
}

// ParsePath parses a path expression.
//
// Supported forms:
//   - "key" - a map key
//   - "key.sub" - nested map keys
//   - "key[0]" or "[0]" - a sequence index
//   - "." - the whole value
func ParsePath(input string) (*Path, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyPath
	}

	p := &Path{Raw: input}
	if input == "." {
		return p, nil
	}

	rest := input
	expectKey := true
	for rest != "" {
		switch rest[0] {
		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed [ in %q", ErrInvalidPath, input)
			}
			n, err := strconv.Atoi(rest[1:end])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: %q", ErrInvalidNumber, rest[1:end])
			}
			p.Steps = append(p.Steps, Step{Index: n, IsIndex: true})
			rest = rest[end+1:]
			expectKey = false

		case '.':
			if expectKey {
				return nil, fmt.Errorf("%w: empty key in %q", ErrInvalidPath, input)
			}
			rest = rest[1:]
			if rest == "" {
				return nil, fmt.Errorf("%w: trailing . in %q", ErrInvalidPath, input)
			}
			expectKey = true

		default:
			if !expectKey {
				return nil, fmt.Errorf("%w: missing . before %q", ErrInvalidPath, rest)
			}
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			p.Steps = append(p.Steps, Step{Key: rest[:end]})
			rest = rest[end:]
			expectKey = false
		}
	}
	return p, nil
}

// String formats the path.
func (p *Path) String() string {
	if len(p.Steps) == 0 {
		return "."
	}
	var sb strings.Builder
	for i, s := range p.Steps {
		if i > 0 && !s.IsIndex {
			sb.WriteByte('.')
		}
		sb.WriteString(s.String())
	}
	return sb.String()
}

// Select walks v along p.
func Select(v wire.Value, p *Path) (wire.Value, error) {
	cur := v
	for i, s := range p.Steps {
		at := (&Path{Steps: p.Steps[:i+1]}).String()
		if s.IsIndex {
			if cur.Kind() != wire.KindSeq {
				return wire.Value{}, fmt.Errorf("%w: %s is a %s, not a seq", ErrNotFound, at, cur.Kind())
			}
			items := cur.Items()
			if s.Index >= len(items) {
				return wire.Value{}, fmt.Errorf("%w: %s out of range (len %d)", ErrNotFound, at, len(items))
			}
			cur = items[s.Index]
			continue
		}
		if cur.Kind() != wire.KindMap {
			return wire.Value{}, fmt.Errorf("%w: %s is a %s, not a map", ErrNotFound, at, cur.Kind())
		}
		next, ok := cur.Get(s.Key)
		if !ok {
			return wire.Value{}, fmt.Errorf("%w: %s", ErrNotFound, at)
		}
		cur = next
	}
	return cur, nil
}
