package codec

import (
	"fmt"

	"github.com/strawket/strawket-go/pkg/wire"
)

// FieldInfo describes one declared field of an entity.
type FieldInfo struct {
	Key      string
	Class    Class
	Type     string
	Optional bool
}

// Entity is the type-erased view of a Schema held by a Registry.
type Entity interface {
	Name() string
	Fields() []FieldInfo
	DecodeAny(v wire.Value) (any, error)
	EncodeAny(x any) (wire.Value, error)
}

// FlagDescriber is the type-erased view of a FlagSet.
type FlagDescriber interface {
	TypeName() string
	FlagInfos() []FlagInfo
}

// EnumDescriber is the type-erased view of an EnumSet.
type EnumDescriber interface {
	TypeName() string
	SymbolNames() []string
}

// Compile-time interface satisfaction checks.
var (
	_ Entity        = (*Schema[struct{}])(nil)
	_ FlagDescriber = (*FlagSet[uint8])(nil)
	_ EnumDescriber = (*EnumSet[int])(nil)
)

// Registry indexes entity schemas by name. It is populated by NewRegistry
// and read-only afterwards.
type Registry struct {
	byName   map[string]Entity
	entities []Entity
}

// NewRegistry builds a Registry. It panics if two entities share a name.
func NewRegistry(entities ...Entity) *Registry {
	r := &Registry{
		byName:   make(map[string]Entity, len(entities)),
		entities: append([]Entity(nil), entities...),
	}
	for _, e := range entities {
		if _, dup := r.byName[e.Name()]; dup {
			panic(fmt.Sprintf("codec: entity %s registered twice", e.Name()))
		}
		r.byName[e.Name()] = e
	}
	return r
}

// Lookup returns the entity registered under name.
func (r *Registry) Lookup(name string) (Entity, bool) {
	e, ok := r.byName[name]
	return e, ok
}

// Entities returns all entities in registration order.
func (r *Registry) Entities() []Entity {
	return append([]Entity(nil), r.entities...)
}

// Names returns all entity names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.entities))
	for i, e := range r.entities {
		names[i] = e.Name()
	}
	return names
}
