package obs

import (
	"github.com/strawket/strawket-go/pkg/codec"
	"github.com/strawket/strawket-go/pkg/dynamic"
)

// Output is an audio/video output such as streaming, recording or the
// virtual camera.
type Output struct {
	Name   string
	Kind   string // e.g. ffmpeg_muxer, virtualcam_output
	Width  int
	Height int
	Active bool
	Flags  OutputFlags
}

// OutputSchema is the wire definition of Output.
var OutputSchema = codec.NewSchema("Output",
	codec.Required("outputName", codec.String, func(o *Output) *string { return &o.Name }),
	codec.Required("outputKind", codec.String, func(o *Output) *string { return &o.Kind }),
	codec.Required("outputWidth", codec.Int, func(o *Output) *int { return &o.Width }),
	codec.Required("outputHeight", codec.Int, func(o *Output) *int { return &o.Height }),
	codec.Required("outputActive", codec.Bool, func(o *Output) *bool { return &o.Active }),
	codec.Required("outputFlags", codec.Elem[OutputFlags](OutputFlagSet), func(o *Output) *OutputFlags { return &o.Flags }),
)

// Scene is an OBS scene.
type Scene struct {
	Name  string
	Index int
}

// SceneSchema is the wire definition of Scene.
var SceneSchema = codec.NewSchema("Scene",
	codec.Required("sceneName", codec.String, func(s *Scene) *string { return &s.Name }),
	codec.Required("sceneIndex", codec.Int, func(s *Scene) *int { return &s.Index }),
)

// InputVolumeMeter carries the per-channel levels of one input.
type InputVolumeMeter struct {
	Name string
	UUID string
	// Levels holds one [magnitude, peak, input peak] triple per channel.
	Levels [][]float64
}

// InputVolumeMeterSchema is the wire definition of InputVolumeMeter.
var InputVolumeMeterSchema = codec.NewSchema("InputVolumeMeter",
	codec.Required("inputName", codec.String, func(m *InputVolumeMeter) *string { return &m.Name }),
	codec.Required("inputUuid", codec.String, func(m *InputVolumeMeter) *string { return &m.UUID }),
	codec.Required("inputLevelsMul", codec.ListOf(codec.ListOf(codec.Float)), func(m *InputVolumeMeter) *[][]float64 { return &m.Levels }),
)

// Input is an OBS input source.
type Input struct {
	Name string
	// Kind is versioned, e.g. color_source_v3.
	Kind            string
	UnversionedKind string
}

// InputSchema is the wire definition of Input.
var InputSchema = codec.NewSchema("Input",
	codec.Required("inputName", codec.String, func(i *Input) *string { return &i.Name }),
	codec.Required("inputKind", codec.String, func(i *Input) *string { return &i.Kind }),
	codec.Required("unversionedInputKind", codec.String, func(i *Input) *string { return &i.UnversionedKind }),
)

// BasicSceneItem identifies a scene item and its position in the scene, as
// sent after reindexing.
type BasicSceneItem struct {
	ID    int
	Index int
}

// BasicSceneItemSchema is the wire definition of BasicSceneItem.
var BasicSceneItemSchema = codec.NewSchema("BasicSceneItem",
	codec.Required("sceneItemId", codec.Int, func(b *BasicSceneItem) *int { return &b.ID }),
	codec.Required("sceneItemIndex", codec.Int, func(b *BasicSceneItem) *int { return &b.Index }),
)

// SceneItem is a source placed in a scene. Everything beyond the id and
// index is optional on the wire.
type SceneItem struct {
	BasicSceneItem

	Enabled    codec.Opt[bool]
	Locked     codec.Opt[bool]
	Transform  codec.Opt[dynamic.Value]
	BlendMode  codec.Opt[BlendingType]
	SourceName codec.Opt[string]
	SourceType codec.Opt[SourceType]
	InputKind  codec.Opt[string]
	IsGroup    codec.Opt[bool]
}

// SceneItemSchema is the wire definition of SceneItem.
var SceneItemSchema = codec.NewSchema("SceneItem", append(
	codec.Inline(BasicSceneItemSchema, func(s *SceneItem) *BasicSceneItem { return &s.BasicSceneItem }),
	codec.Optional("sceneItemEnabled", codec.Bool, func(s *SceneItem) *codec.Opt[bool] { return &s.Enabled }),
	codec.Optional("sceneItemLocked", codec.Bool, func(s *SceneItem) *codec.Opt[bool] { return &s.Locked }),
	codec.Optional("sceneItemTransform", codec.DynamicMap, func(s *SceneItem) *codec.Opt[dynamic.Value] { return &s.Transform }),
	codec.Optional("sceneItemBlendMode", codec.Elem[BlendingType](BlendingTypes), func(s *SceneItem) *codec.Opt[BlendingType] { return &s.BlendMode }),
	codec.Optional("sourceName", codec.String, func(s *SceneItem) *codec.Opt[string] { return &s.SourceName }),
	codec.Optional("sourceType", codec.Elem[SourceType](SourceTypes), func(s *SceneItem) *codec.Opt[SourceType] { return &s.SourceType }),
	codec.Optional("inputKind", codec.String, func(s *SceneItem) *codec.Opt[string] { return &s.InputKind }),
	codec.Optional("isGroup", codec.Bool, func(s *SceneItem) *codec.Opt[bool] { return &s.IsGroup }),
)...)

// SourceFilter is a filter attached to a source.
type SourceFilter struct {
	Name    string
	Index   int
	Kind    string
	Enabled bool
	// Settings depend on Kind and have no fixed shape.
	Settings dynamic.Value
}

// SourceFilterSchema is the wire definition of SourceFilter.
var SourceFilterSchema = codec.NewSchema("SourceFilter",
	codec.Required("filterName", codec.String, func(f *SourceFilter) *string { return &f.Name }),
	codec.Required("filterIndex", codec.Int, func(f *SourceFilter) *int { return &f.Index }),
	codec.Required("filterKind", codec.String, func(f *SourceFilter) *string { return &f.Kind }),
	codec.Required("filterEnabled", codec.Bool, func(f *SourceFilter) *bool { return &f.Enabled }),
	codec.Required("filterSettings", codec.DynamicMap, func(f *SourceFilter) *dynamic.Value { return &f.Settings }),
)

// AvailableTransition is a scene transition listed by OBS.
type AvailableTransition struct {
	Name string
	Kind string
	// Fixed is set when the transition's duration cannot be configured.
	Fixed        bool
	Configurable bool
}

// AvailableTransitionSchema is the wire definition of AvailableTransition.
var AvailableTransitionSchema = codec.NewSchema("AvailableTransition",
	codec.Required("transitionName", codec.String, func(t *AvailableTransition) *string { return &t.Name }),
	codec.Required("transitionKind", codec.String, func(t *AvailableTransition) *string { return &t.Kind }),
	codec.Required("transitionFixed", codec.Bool, func(t *AvailableTransition) *bool { return &t.Fixed }),
	codec.Required("transitionConfigurable", codec.Bool, func(t *AvailableTransition) *bool { return &t.Configurable }),
)

// Registry holds every OBS entity schema.
var Registry = codec.NewRegistry(
	OutputSchema,
	SceneSchema,
	InputVolumeMeterSchema,
	InputSchema,
	BasicSceneItemSchema,
	SceneItemSchema,
	SourceFilterSchema,
	AvailableTransitionSchema,
)

// FlagSets lists every bitmask type used by the entities.
var FlagSets = []codec.FlagDescriber{OutputFlagSet}

// Enums lists every enumeration used by the entities.
var Enums = []codec.EnumDescriber{BlendingTypes, SourceTypes}
