package manifest

import (
	"fmt"
	"strings"

	"github.com/strawket/strawket-go/pkg/codec"
)

// Severity grades a Finding.
type Severity uint8

const (
	// SeverityWarning marks drift the codec tolerates.
	SeverityWarning Severity = iota
	// SeverityError marks drift that makes decodes fail or lose data.
	SeverityError
)

// String returns the severity name.
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Finding is one difference between a manifest and a registry.
type Finding struct {
	Severity Severity
	// Subject names the entity, flag set or enumeration.
	Subject string
	// Item is the wire key, flag name or symbol, if any.
	Item    string
	Message string
}

// String formats the finding on one line.
func (f Finding) String() string {
	var sb strings.Builder
	sb.WriteString(f.Severity.String())
	sb.WriteString(": ")
	sb.WriteString(f.Subject)
	if f.Item != "" {
		sb.WriteString(".")
		sb.WriteString(f.Item)
	}
	sb.WriteString(": ")
	sb.WriteString(f.Message)
	return sb.String()
}

// HasErrors reports whether any finding is an error.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

type auditor struct {
	findings []Finding
}

func (a *auditor) add(sev Severity, subject, item, format string, args ...any) {
	a.findings = append(a.findings, Finding{
		Severity: sev,
		Subject:  subject,
		Item:     item,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Audit compares the entities, flag sets and enumerations compiled into the
// codec with manifest m. Findings are ordered by manifest entry.
func Audit(m *Manifest, reg *codec.Registry, flags []codec.FlagDescriber, enums []codec.EnumDescriber) []Finding {
	a := &auditor{}
	a.entities(m, reg)
	a.flagSets(m, flags)
	a.enums(m, enums)
	return a.findings
}

func (a *auditor) entities(m *Manifest, reg *codec.Registry) {
	for _, spec := range m.Entities {
		ent, ok := reg.Lookup(spec.Name)
		if !ok {
			a.add(SeverityError, spec.Name, "", "entity missing from registry")
			continue
		}
		a.fields(spec, ent.Fields())
	}
	for _, name := range reg.Names() {
		if _, ok := m.Entity(name); !ok {
			a.add(SeverityWarning, name, "", "entity not in manifest %s", m.Version)
		}
	}
}

func (a *auditor) fields(spec EntitySpec, got []codec.FieldInfo) {
	byKey := make(map[string]codec.FieldInfo, len(got))
	for _, f := range got {
		byKey[f.Key] = f
	}
	declared := make(map[string]bool, len(spec.Fields))

	var common []string
	for _, want := range spec.Fields {
		declared[want.Key] = true
		have, ok := byKey[want.Key]
		if !ok {
			sev := SeverityWarning
			if !want.Optional {
				sev = SeverityError
			}
			a.add(sev, spec.Name, want.Key, "key not declared by the codec")
			continue
		}
		common = append(common, want.Key)

		class, err := codec.ParseClass(want.Class)
		if err != nil {
			a.add(SeverityError, spec.Name, want.Key, "manifest: %v", err)
		} else if class != have.Class {
			a.add(SeverityError, spec.Name, want.Key, "class %s, manifest says %s", have.Class, class)
		}
		if want.Type != "" && want.Type != have.Type {
			a.add(SeverityError, spec.Name, want.Key, "type %s, manifest says %s", have.Type, want.Type)
		}
		if want.Optional != have.Optional {
			a.add(SeverityError, spec.Name, want.Key, "optional=%t, manifest says %t", have.Optional, want.Optional)
		}
	}

	var order []string
	for _, f := range got {
		if !declared[f.Key] {
			sev := SeverityWarning
			if !f.Optional {
				sev = SeverityError
			}
			a.add(sev, spec.Name, f.Key, "key not in manifest")
			continue
		}
		order = append(order, f.Key)
	}

	for i := range common {
		if common[i] != order[i] {
			a.add(SeverityWarning, spec.Name, "", "key order differs: codec %s, manifest %s",
				strings.Join(order, ","), strings.Join(common, ","))
			break
		}
	}
}

func (a *auditor) flagSets(m *Manifest, flags []codec.FlagDescriber) {
	byName := make(map[string]codec.FlagDescriber, len(flags))
	for _, fd := range flags {
		byName[fd.TypeName()] = fd
	}

	for _, spec := range m.Flags {
		fd, ok := byName[spec.Name]
		if !ok {
			a.add(SeverityError, spec.Name, "", "flag set not supplied")
			continue
		}
		have := make(map[string]uint64)
		for _, f := range fd.FlagInfos() {
			have[f.Name] = f.Bit
		}
		want := make(map[string]bool, len(spec.Flags))
		for _, f := range spec.Flags {
			want[f.Name] = true
			bit, ok := have[f.Name]
			switch {
			case !ok:
				a.add(SeverityWarning, spec.Name, f.Name, "flag not declared by the codec")
			case bit != f.Bit:
				a.add(SeverityError, spec.Name, f.Name, "bit %#x, manifest says %#x", bit, f.Bit)
			}
		}
		for _, f := range fd.FlagInfos() {
			if !want[f.Name] {
				a.add(SeverityWarning, spec.Name, f.Name, "flag not in manifest")
			}
		}
	}

	for _, fd := range flags {
		if _, ok := m.FlagSet(fd.TypeName()); !ok {
			a.add(SeverityWarning, fd.TypeName(), "", "flag set not in manifest %s", m.Version)
		}
	}
}

func (a *auditor) enums(m *Manifest, enums []codec.EnumDescriber) {
	byName := make(map[string]codec.EnumDescriber, len(enums))
	for _, ed := range enums {
		byName[ed.TypeName()] = ed
	}

	for _, spec := range m.Enums {
		ed, ok := byName[spec.Name]
		if !ok {
			a.add(SeverityError, spec.Name, "", "enumeration not supplied")
			continue
		}
		have := make(map[string]bool)
		for _, s := range ed.SymbolNames() {
			have[s] = true
		}
		want := make(map[string]bool, len(spec.Symbols))
		for _, s := range spec.Symbols {
			want[s] = true
			if !have[s] {
				// The codec rejects symbols it does not know.
				a.add(SeverityError, spec.Name, s, "symbol not declared by the codec")
			}
		}
		for _, s := range ed.SymbolNames() {
			if !want[s] {
				a.add(SeverityWarning, spec.Name, s, "symbol not in manifest")
			}
		}
	}

	for _, ed := range enums {
		if _, ok := m.Enum(ed.TypeName()); !ok {
			a.add(SeverityWarning, ed.TypeName(), "", "enumeration not in manifest %s", m.Version)
		}
	}
}
