package obs

import "github.com/strawket/strawket-go/pkg/codec"

// OutputFlags are the capability flags of an output.
type OutputFlags uint32

const (
	// OutputVideo indicates the output has video.
	OutputVideo OutputFlags = 1 << 0

	// OutputAudio indicates the output has audio.
	OutputAudio OutputFlags = 1 << 1

	// OutputEncoded indicates the output is encoded.
	OutputEncoded OutputFlags = 1 << 2

	// OutputService indicates the output requires a service object.
	OutputService OutputFlags = 1 << 3

	// OutputMultiTrack indicates the output supports multiple audio tracks.
	OutputMultiTrack OutputFlags = 1 << 4

	// OutputCanPause indicates the output can be paused.
	OutputCanPause OutputFlags = 1 << 5
)

// OutputFlagSet is the wire definition of OutputFlags.
var OutputFlagSet = codec.NewFlagSet("OutputFlags",
	codec.Flag[OutputFlags]{Name: "OBS_OUTPUT_VIDEO", Bit: OutputVideo},
	codec.Flag[OutputFlags]{Name: "OBS_OUTPUT_AUDIO", Bit: OutputAudio},
	codec.Flag[OutputFlags]{Name: "OBS_OUTPUT_ENCODED", Bit: OutputEncoded},
	codec.Flag[OutputFlags]{Name: "OBS_OUTPUT_SERVICE", Bit: OutputService},
	codec.Flag[OutputFlags]{Name: "OBS_OUTPUT_MULTI_TRACK", Bit: OutputMultiTrack},
	codec.Flag[OutputFlags]{Name: "OBS_OUTPUT_CAN_PAUSE", Bit: OutputCanPause},
)

// Has reports whether all bits of flag are set.
func (f OutputFlags) Has(flag OutputFlags) bool {
	return f&flag == flag
}

// String returns the set flag names joined by "|".
func (f OutputFlags) String() string {
	return OutputFlagSet.Format(f)
}

// BlendingType is the blend mode of a scene item.
type BlendingType uint8

const (
	BlendNormal BlendingType = iota
	BlendAdditive
	BlendSubtract
	BlendScreen
	BlendMultiply
	BlendLighten
	BlendDarken
)

// BlendingTypes is the wire definition of BlendingType.
var BlendingTypes = codec.NewEnumSet("BlendingType",
	codec.Symbol[BlendingType]{Value: BlendNormal, Name: "OBS_BLEND_NORMAL"},
	codec.Symbol[BlendingType]{Value: BlendAdditive, Name: "OBS_BLEND_ADDITIVE"},
	codec.Symbol[BlendingType]{Value: BlendSubtract, Name: "OBS_BLEND_SUBTRACT"},
	codec.Symbol[BlendingType]{Value: BlendScreen, Name: "OBS_BLEND_SCREEN"},
	codec.Symbol[BlendingType]{Value: BlendMultiply, Name: "OBS_BLEND_MULTIPLY"},
	codec.Symbol[BlendingType]{Value: BlendLighten, Name: "OBS_BLEND_LIGHTEN"},
	codec.Symbol[BlendingType]{Value: BlendDarken, Name: "OBS_BLEND_DARKEN"},
)

// String returns the wire name of the blend mode.
func (b BlendingType) String() string {
	if s, ok := BlendingTypes.Name(b); ok {
		return s
	}
	return "UNKNOWN"
}

// SourceType is the kind of source behind a scene item.
type SourceType uint8

const (
	// SourceTypeInput is an input source (camera, capture, media).
	SourceTypeInput SourceType = iota
	// SourceTypeFilter is a filter attached to another source.
	SourceTypeFilter
	// SourceTypeTransition is a scene transition.
	SourceTypeTransition
	// SourceTypeScene is a scene used as a source.
	SourceTypeScene
)

// SourceTypes is the wire definition of SourceType.
var SourceTypes = codec.NewEnumSet("SourceType",
	codec.Symbol[SourceType]{Value: SourceTypeInput, Name: "OBS_SOURCE_TYPE_INPUT"},
	codec.Symbol[SourceType]{Value: SourceTypeFilter, Name: "OBS_SOURCE_TYPE_FILTER"},
	codec.Symbol[SourceType]{Value: SourceTypeTransition, Name: "OBS_SOURCE_TYPE_TRANSITION"},
	codec.Symbol[SourceType]{Value: SourceTypeScene, Name: "OBS_SOURCE_TYPE_SCENE"},
)

// String returns the wire name of the source type.
func (s SourceType) String() string {
	if name, ok := SourceTypes.Name(s); ok {
		return name
	}
	return "UNKNOWN"
}
