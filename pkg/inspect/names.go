package inspect

import (
	"strings"

	"github.com/strawket/strawket-go/pkg/codec"
)

// ResolveEntity looks up an entity by name, ignoring case.
func ResolveEntity(reg *codec.Registry, name string) (codec.Entity, bool) {
	if e, ok := reg.Lookup(name); ok {
		return e, true
	}
	for _, e := range reg.Entities() {
		if strings.EqualFold(e.Name(), name) {
			return e, true
		}
	}
	return nil, false
}

// MatchEntityNames returns the entity names starting with prefix, ignoring case.
func MatchEntityNames(reg *codec.Registry, prefix string) []string {
	lp := strings.ToLower(prefix)
	var out []string
	for _, n := range reg.Names() {
		if strings.HasPrefix(strings.ToLower(n), lp) {
			out = append(out, n)
		}
	}
	return out
}
