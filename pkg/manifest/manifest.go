package manifest

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed manifests/*.yaml
var manifestFS embed.FS

// Manifest describes the entities of one protocol version.
type Manifest struct {
	Version     string       `yaml:"version"`
	Description string       `yaml:"description"`
	Entities    []EntitySpec `yaml:"entities"`
	Flags       []FlagsSpec  `yaml:"flags"`
	Enums       []EnumSpec   `yaml:"enums"`
}

// EntitySpec is a named entity with its ordered fields.
type EntitySpec struct {
	Name   string      `yaml:"name"`
	Fields []FieldSpec `yaml:"fields"`
}

// FieldSpec is one wire key of an entity.
type FieldSpec struct {
	Key      string `yaml:"key"`
	Class    string `yaml:"class"`
	Type     string `yaml:"type"`
	Optional bool   `yaml:"optional"`
}

// FlagsSpec is a named bitmask type.
type FlagsSpec struct {
	Name  string     `yaml:"name"`
	Flags []FlagSpec `yaml:"flags"`
}

// FlagSpec is one named bit.
type FlagSpec struct {
	Name string `yaml:"name"`
	Bit  uint64 `yaml:"bit"`
}

// EnumSpec is a named enumeration with its wire symbols.
type EnumSpec struct {
	Name    string   `yaml:"name"`
	Symbols []string `yaml:"symbols"`
}

// ---------------------------------------------------------------------------
// Cache
// ---------------------------------------------------------------------------

var (
	cacheMu sync.RWMutex
	cache   = make(map[string]*Manifest)
)

// Load loads the manifest of a protocol version (e.g. "5.5").
func Load(ver string) (*Manifest, error) {
	cacheMu.RLock()
	if m, ok := cache[ver]; ok {
		cacheMu.RUnlock()
		return m, nil
	}
	cacheMu.RUnlock()

	data, err := manifestFS.ReadFile("manifests/" + ver + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("manifest version %q not found: %w", ver, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %q: %w", ver, err)
	}

	cacheMu.Lock()
	cache[ver] = m
	cacheMu.Unlock()

	return m, nil
}

// LoadLatest loads the manifest with the highest version.
func LoadLatest() (*Manifest, error) {
	versions, err := Versions()
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("no embedded manifests")
	}
	return Load(versions[len(versions)-1])
}

// Versions returns the embedded manifest versions, oldest first.
func Versions() ([]string, error) {
	entries, err := manifestFS.ReadDir("manifests")
	if err != nil {
		return nil, fmt.Errorf("reading manifests directory: %w", err)
	}

	var versions []Version
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, ".yaml") {
			continue
		}
		v, err := ParseVersion(strings.TrimSuffix(name, ".yaml"))
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].Less(versions[j]) })

	out := make([]string, len(versions))
	for i, v := range versions {
		out[i] = v.String()
	}
	return out, nil
}

// Parse decodes a manifest document and checks it for internal consistency.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if _, err := ParseVersion(m.Version); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, e := range m.Entities {
		if seen[e.Name] {
			return fmt.Errorf("entity %s listed twice", e.Name)
		}
		seen[e.Name] = true
		keys := make(map[string]bool, len(e.Fields))
		for _, f := range e.Fields {
			if keys[f.Key] {
				return fmt.Errorf("entity %s lists key %s twice", e.Name, f.Key)
			}
			keys[f.Key] = true
		}
	}
	return nil
}

// Entity looks up an entity by name.
func (m *Manifest) Entity(name string) (*EntitySpec, bool) {
	for i := range m.Entities {
		if m.Entities[i].Name == name {
			return &m.Entities[i], true
		}
	}
	return nil, false
}

// FlagSet looks up a flag set by name.
func (m *Manifest) FlagSet(name string) (*FlagsSpec, bool) {
	for i := range m.Flags {
		if m.Flags[i].Name == name {
			return &m.Flags[i], true
		}
	}
	return nil, false
}

// Enum looks up an enumeration by name.
func (m *Manifest) Enum(name string) (*EnumSpec, bool) {
	for i := range m.Enums {
		if m.Enums[i].Name == name {
			return &m.Enums[i], true
		}
	}
	return nil, false
}
