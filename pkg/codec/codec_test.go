package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strawket/strawket-go/pkg/dynamic"
	"github.com/strawket/strawket-go/pkg/wire"
)

type caps uint8

const (
	capRead  caps = 1 << 0
	capWrite caps = 1 << 1
	capExec  caps = 1 << 2
)

var capsFlags = NewFlagSet("caps",
	Flag[caps]{Name: "CAP_READ", Bit: capRead},
	Flag[caps]{Name: "CAP_WRITE", Bit: capWrite},
	Flag[caps]{Name: "CAP_EXEC", Bit: capExec},
)

type shade int

const (
	shadeLight shade = iota
	shadeDark
)

var shadeEnum = NewEnumSet("shade",
	Symbol[shade]{Value: shadeLight, Name: "SHADE_LIGHT"},
	Symbol[shade]{Value: shadeDark, Name: "SHADE_DARK"},
)

type base struct {
	ID int
}

var baseSchema = NewSchema("base",
	Required("id", Int, func(b *base) *int { return &b.ID }),
)

type widget struct {
	base
	Name     string
	Caps     caps
	Shade    Opt[shade]
	Settings Opt[dynamic.Value]
	Levels   [][]float64
	Child    Opt[base]
}

var widgetSchema = NewSchema("widget", append(
	Inline(baseSchema, func(w *widget) *base { return &w.base }),
	Required("widgetName", String, func(w *widget) *string { return &w.Name }),
	Required("widgetCaps", capsFlags, func(w *widget) *caps { return &w.Caps }),
	Optional("widgetShade", shadeEnum, func(w *widget) *Opt[shade] { return &w.Shade }),
	Optional("widgetSettings", DynamicMap, func(w *widget) *Opt[dynamic.Value] { return &w.Settings }),
	Required("widgetLevels", ListOf(ListOf(Float)), func(w *widget) *[][]float64 { return &w.Levels }),
	Optional("child", Elem[base](baseSchema), func(w *widget) *Opt[base] { return &w.Child }),
)...)

func capsMap(read, write, exec bool) wire.Value {
	return wire.Map(
		wire.Pair{Key: "CAP_READ", Value: wire.Bool(read)},
		wire.Pair{Key: "CAP_WRITE", Value: wire.Bool(write)},
		wire.Pair{Key: "CAP_EXEC", Value: wire.Bool(exec)},
	)
}

func widgetWire(extra ...wire.Pair) wire.Value {
	pairs := []wire.Pair{
		{Key: "id", Value: wire.Int(7)},
		{Key: "widgetName", Value: wire.String("w")},
		{Key: "widgetCaps", Value: capsMap(true, false, true)},
		{Key: "widgetLevels", Value: wire.Seq(wire.Seq(wire.Float(0.5), wire.Int(1)))},
	}
	return wire.Map(append(pairs, extra...)...)
}

func TestFlagsDecode(t *testing.T) {
	tests := []struct {
		name string
		in   wire.Value
		want caps
	}{
		{"all false", capsMap(false, false, false), 0},
		{"mixed", capsMap(true, false, true), capRead | capExec},
		{"missing keys are false", wire.Map(wire.Pair{Key: "CAP_WRITE", Value: wire.Bool(true)}), capWrite},
		{"empty map", wire.Map(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := capsFlags.DecodeWire(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlagsEncodeIsComplete(t *testing.T) {
	partial := wire.Map(wire.Pair{Key: "CAP_EXEC", Value: wire.Bool(true)})

	mask, err := capsFlags.DecodeWire(partial)
	require.NoError(t, err)
	out, err := capsFlags.EncodeWire(mask)
	require.NoError(t, err)

	assert.True(t, wire.Identical(capsMap(false, false, true), out), "got %s", out)
}

func TestFlagsIgnoreUnknownNames(t *testing.T) {
	known := capsMap(true, true, false)
	withUnknown := wire.Map(append(known.Pairs(),
		wire.Pair{Key: "CAP_TELEPORT", Value: wire.Bool(true)})...)

	a, err := capsFlags.DecodeWire(known)
	require.NoError(t, err)
	b, err := capsFlags.DecodeWire(withUnknown)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	// Unknown names are skipped whatever their value.
	c, err := capsFlags.DecodeWire(wire.Map(wire.Pair{Key: "CAP_NEW", Value: wire.Int(3)}))
	require.NoError(t, err)
	assert.Equal(t, caps(0), c)
}

func TestFlagsTypeMismatch(t *testing.T) {
	_, err := capsFlags.DecodeWire(wire.Int(3))
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = capsFlags.DecodeWire(wire.Map(wire.Pair{Key: "CAP_READ", Value: wire.Int(1)}))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestFlagsFormat(t *testing.T) {
	assert.Equal(t, "CAP_READ|CAP_EXEC", capsFlags.Format(capRead|capExec))
	assert.Equal(t, "0", capsFlags.Format(0))
	assert.Equal(t, capRead|capWrite|capExec, capsFlags.Mask())
}

func TestNewFlagSetPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewFlagSet("bad", Flag[caps]{Name: "A", Bit: 3})
	})
	assert.Panics(t, func() {
		NewFlagSet("bad", Flag[caps]{Name: "A", Bit: 1}, Flag[caps]{Name: "A", Bit: 2})
	})
	assert.Panics(t, func() {
		NewFlagSet("bad", Flag[caps]{Name: "A", Bit: 1}, Flag[caps]{Name: "B", Bit: 1})
	})
	assert.Panics(t, func() {
		NewFlagSet("bad", Flag[caps]{Name: "A", Bit: 0})
	})
}

func TestEnumRoundTrip(t *testing.T) {
	for _, sym := range shadeEnum.Symbols() {
		t.Run(sym.Name, func(t *testing.T) {
			v, err := shadeEnum.DecodeWire(wire.String(sym.Name))
			require.NoError(t, err)
			assert.Equal(t, sym.Value, v)

			out, err := shadeEnum.EncodeWire(v)
			require.NoError(t, err)
			s, _ := out.AsString()
			assert.Equal(t, sym.Name, s)
		})
	}
}

func TestEnumRejectsUnknownSymbol(t *testing.T) {
	_, err := shadeEnum.DecodeWire(wire.String("SHADE_NEON"))
	require.ErrorIs(t, err, ErrUnknownEnumSymbol)

	var ue *UnknownEnumSymbolError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "shade", ue.Enum)
	assert.Equal(t, "SHADE_NEON", ue.Symbol)

	_, err = shadeEnum.DecodeWire(wire.Int(1))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestEnumEncodeUndeclaredValue(t *testing.T) {
	_, err := shadeEnum.EncodeWire(shade(42))
	assert.ErrorIs(t, err, ErrUnknownEnumValue)
}

func TestNewEnumSetPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewEnumSet("bad", Symbol[shade]{Value: 0, Name: "A"}, Symbol[shade]{Value: 1, Name: "A"})
	})
	assert.Panics(t, func() {
		NewEnumSet("bad", Symbol[shade]{Value: 0, Name: "A"}, Symbol[shade]{Value: 0, Name: "B"})
	})
}

func TestSchemaDecode(t *testing.T) {
	w, err := widgetSchema.DecodeWire(widgetWire(
		wire.Pair{Key: "widgetShade", Value: wire.String("SHADE_DARK")},
		wire.Pair{Key: "unknownKey", Value: wire.Seq(wire.Int(1))},
	))
	require.NoError(t, err)

	assert.Equal(t, 7, w.ID)
	assert.Equal(t, "w", w.Name)
	assert.Equal(t, capRead|capExec, w.Caps)
	assert.Equal(t, Some(shadeDark), w.Shade)
	assert.True(t, w.Settings.IsAbsent())
	assert.Equal(t, [][]float64{{0.5, 1}}, w.Levels)
	assert.True(t, w.Child.IsAbsent())
}

func TestSchemaRoundTrip(t *testing.T) {
	settings := dynamic.Object(dynamic.MapOf(
		dynamic.Entry{Key: "a", Value: dynamic.Int(1)},
		dynamic.Entry{Key: "b", Value: dynamic.Float(2.5)},
	))
	in := widget{
		base:     base{ID: 3},
		Name:     "round",
		Caps:     capWrite,
		Shade:    Some(shadeLight),
		Settings: Some(settings),
		Levels:   [][]float64{{0.1, 0.2}, {}},
		Child:    Some(base{ID: 9}),
	}

	data, err := widgetSchema.Marshal(&in)
	require.NoError(t, err)
	out, err := widgetSchema.Unmarshal(data)
	require.NoError(t, err)

	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Caps, out.Caps)
	assert.Equal(t, in.Shade, out.Shade)
	assert.Equal(t, in.Levels, out.Levels)
	assert.Equal(t, in.Child, out.Child)

	got, ok := out.Settings.Get()
	require.True(t, ok)
	assert.True(t, dynamic.Equal(settings, got))

	// Encoding follows declaration order.
	v, err := widgetSchema.EncodeWire(in)
	require.NoError(t, err)
	var keys []string
	for _, p := range v.Pairs() {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{"id", "widgetName", "widgetCaps", "widgetShade", "widgetSettings", "widgetLevels", "child"}, keys)
}

func TestSchemaMissingRequiredField(t *testing.T) {
	v := wire.Map(
		wire.Pair{Key: "id", Value: wire.Int(1)},
		wire.Pair{Key: "widgetCaps", Value: capsMap(false, false, false)},
		wire.Pair{Key: "widgetLevels", Value: wire.Seq()},
	)
	_, err := widgetSchema.DecodeWire(v)
	require.ErrorIs(t, err, ErrMissingField)

	var mf *MissingFieldError
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, "widget", mf.Entity)
	assert.Equal(t, "widgetName", mf.Field)
}

func TestSchemaTypeMismatch(t *testing.T) {
	tests := []struct {
		name  string
		value wire.Value
		field string
	}{
		{"string field holds int", wire.Map(append(widgetWire().Pairs()[:1],
			wire.Pair{Key: "widgetName", Value: wire.Int(1)},
			wire.Pair{Key: "widgetCaps", Value: capsMap(false, false, false)},
			wire.Pair{Key: "widgetLevels", Value: wire.Seq()})...), "widgetName"},
		{"flags field holds seq", widgetWireWith("widgetCaps", wire.Seq()), "widgetCaps"},
		{"enum field holds bool", widgetWire(wire.Pair{Key: "widgetShade", Value: wire.Bool(true)}), "widgetShade"},
		{"settings holds string", widgetWire(wire.Pair{Key: "widgetSettings", Value: wire.String("x")}), "widgetSettings"},
		{"nested level holds string", widgetWireWith("widgetLevels", wire.Seq(wire.Seq(wire.String("x")))), "widgetLevels"},
		{"required nil", widgetWireWith("widgetName", wire.Nil()), "widgetName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := widgetSchema.DecodeWire(tt.value)
			require.ErrorIs(t, err, ErrTypeMismatch)

			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.field, fe.Field)
		})
	}

	_, err := widgetSchema.DecodeWire(wire.Seq())
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func widgetWireWith(key string, v wire.Value) wire.Value {
	pairs := widgetWire().Pairs()
	for i := range pairs {
		if pairs[i].Key == key {
			pairs[i].Value = v
		}
	}
	return wire.Map(pairs...)
}

func TestOptionalDynamicAbsentNullEmpty(t *testing.T) {
	absent, err := widgetSchema.DecodeWire(widgetWire())
	require.NoError(t, err)
	assert.Equal(t, Absent, absent.Settings.Presence())

	out, err := widgetSchema.EncodeWire(absent)
	require.NoError(t, err)
	_, ok := out.Get("widgetSettings")
	assert.False(t, ok, "absent optional must be omitted")

	empty, err := widgetSchema.DecodeWire(widgetWire(wire.Pair{Key: "widgetSettings", Value: wire.Map()}))
	require.NoError(t, err)
	assert.Equal(t, Present, empty.Settings.Presence())
	m, _ := empty.Settings.Get()
	assert.Equal(t, dynamic.KindMap, m.Kind())

	out, err = widgetSchema.EncodeWire(empty)
	require.NoError(t, err)
	got, ok := out.Get("widgetSettings")
	require.True(t, ok)
	assert.True(t, wire.Identical(wire.Map(), got))
}

// A nil enum on the wire is Null, distinct from an absent key.
func TestOptionalEnumNullVersusAbsent(t *testing.T) {
	null, err := widgetSchema.DecodeWire(widgetWire(wire.Pair{Key: "widgetShade", Value: wire.Nil()}))
	require.NoError(t, err)
	assert.True(t, null.Shade.IsNull())

	absent, err := widgetSchema.DecodeWire(widgetWire())
	require.NoError(t, err)
	assert.True(t, absent.Shade.IsAbsent())

	out, err := widgetSchema.EncodeWire(null)
	require.NoError(t, err)
	v, ok := out.Get("widgetShade")
	require.True(t, ok)
	assert.True(t, v.IsNil())

	out, err = widgetSchema.EncodeWire(absent)
	require.NoError(t, err)
	_, ok = out.Get("widgetShade")
	assert.False(t, ok)
}

func TestEncodeUndeclaredEnumReportsField(t *testing.T) {
	w := widget{Shade: Some(shade(9))}
	_, err := widgetSchema.EncodeWire(w)
	require.ErrorIs(t, err, ErrUnknownEnumValue)

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "widgetShade", fe.Field)
}

func TestUnmarshalMalformed(t *testing.T) {
	_, err := widgetSchema.Unmarshal([]byte{0x81, 0xa1})
	assert.ErrorIs(t, err, wire.ErrMalformed)
}

func TestSchemaDuplicateKeyPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewSchema("dup",
			Required("id", Int, func(b *base) *int { return &b.ID }),
			Required("id", Int, func(b *base) *int { return &b.ID }),
		)
	})
}

func TestSchemaFields(t *testing.T) {
	fields := widgetSchema.Fields()
	require.Len(t, fields, 7)
	assert.Equal(t, FieldInfo{Key: "id", Class: ClassPlain, Type: "int"}, fields[0])
	assert.Equal(t, FieldInfo{Key: "widgetCaps", Class: ClassFlags, Type: "caps"}, fields[2])
	assert.Equal(t, FieldInfo{Key: "widgetShade", Class: ClassEnum, Type: "shade", Optional: true}, fields[3])
	assert.Equal(t, FieldInfo{Key: "widgetSettings", Class: ClassDynamic, Type: "dynamic.map", Optional: true}, fields[4])
	assert.Equal(t, FieldInfo{Key: "widgetLevels", Class: ClassList, Type: "[][]float64"}, fields[5])
	assert.Equal(t, FieldInfo{Key: "child", Class: ClassObject, Type: "base", Optional: true}, fields[6])
}

func TestAnyAdapters(t *testing.T) {
	x, err := baseSchema.DecodeAny(wire.Map(wire.Pair{Key: "id", Value: wire.Int(4)}))
	require.NoError(t, err)
	b, ok := x.(*base)
	require.True(t, ok)
	assert.Equal(t, 4, b.ID)

	v, err := baseSchema.EncodeAny(b)
	require.NoError(t, err)
	assert.True(t, wire.Identical(wire.Map(wire.Pair{Key: "id", Value: wire.Int(4)}), v))

	v, err = baseSchema.EncodeAny(*b)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Len())

	_, err = baseSchema.EncodeAny("nope")
	assert.ErrorIs(t, err, ErrWrongEntity)
	_, err = baseSchema.EncodeAny((*base)(nil))
	assert.ErrorIs(t, err, ErrWrongEntity)
}

func TestFloatAcceptsIntegers(t *testing.T) {
	f, err := Float.DecodeWire(wire.Int(2))
	require.NoError(t, err)
	assert.Equal(t, 2.0, f)

	_, err = Float.DecodeWire(wire.String("2"))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestParseClass(t *testing.T) {
	for c := ClassPlain; c <= ClassList; c++ {
		got, err := ParseClass(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseClass("bogus")
	assert.Error(t, err)
}
