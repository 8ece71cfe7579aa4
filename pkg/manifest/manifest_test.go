package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	m, err := Load("5.5")
	require.NoError(t, err)
	assert.Equal(t, "5.5", m.Version)
	assert.NotEmpty(t, m.Description)

	again, err := Load("5.5")
	require.NoError(t, err)
	assert.Same(t, m, again, "second load is served from the cache")
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load("99.99")
	assert.Error(t, err)
}

func TestVersions(t *testing.T) {
	versions, err := Versions()
	require.NoError(t, err)
	assert.Equal(t, []string{"5.0", "5.5"}, versions)
}

func TestLoadLatest(t *testing.T) {
	m, err := LoadLatest()
	require.NoError(t, err)
	assert.Equal(t, "5.5", m.Version)
}

func TestManifestContent(t *testing.T) {
	m, err := Load("5.5")
	require.NoError(t, err)

	item, ok := m.Entity("SceneItem")
	require.True(t, ok)
	require.Len(t, item.Fields, 10)
	assert.Equal(t, FieldSpec{Key: "sceneItemTransform", Class: "dynamic", Type: "dynamic.map", Optional: true}, item.Fields[4])

	flags, ok := m.FlagSet("OutputFlags")
	require.True(t, ok)
	require.Len(t, flags.Flags, 6)
	assert.Equal(t, FlagSpec{Name: "OBS_OUTPUT_CAN_PAUSE", Bit: 0x20}, flags.Flags[5])

	enum, ok := m.Enum("SourceType")
	require.True(t, ok)
	assert.Equal(t, "OBS_SOURCE_TYPE_SCENE", enum.Symbols[3])

	_, ok = m.Entity("Nope")
	assert.False(t, ok)
}

func TestParseRejectsDuplicates(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "bad version",
			doc:  "version: five\n",
		},
		{
			name: "duplicate entity",
			doc: `version: "1.0"
entities:
  - name: A
  - name: A
`,
		},
		{
			name: "duplicate key",
			doc: `version: "1.0"
entities:
  - name: A
    fields:
      - {key: x, class: plain}
      - {key: x, class: plain}
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("5.10")
	require.NoError(t, err)
	assert.Equal(t, Version{Major: 5, Minor: 10}, v)
	assert.Equal(t, "5.10", v.String())

	nine, _ := ParseVersion("5.9")
	assert.True(t, nine.Less(v))
	assert.False(t, v.Less(nine))
	assert.True(t, nine.Compatible(v))

	for _, bad := range []string{"", "5", "5.", ".1", "a.b", "5.1.2", "70000.1"} {
		_, err := ParseVersion(bad)
		assert.Error(t, err, bad)
	}
}
