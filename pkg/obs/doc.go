// Package obs defines the OBS Studio entities exchanged over the
// obs-websocket msgpack sub-protocol and their wire schemas.
//
// Wire keys match the obs-websocket protocol exactly. Three fields use
// irregular encodings:
//
//   - Output.Flags is a bitmask sent as {"OBS_OUTPUT_VIDEO": true, ...}
//   - SceneItem.BlendMode and SceneItem.SourceType are enumerations sent by
//     symbolic name, e.g. "OBS_BLEND_NORMAL"
//   - SceneItem.Transform and SourceFilter.Settings are open-shape trees
//
// Decoded entities are plain values owned by the caller. Registry lists every
// schema for tools that work by entity name.
package obs
