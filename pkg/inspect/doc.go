// Package inspect renders wire values for people.
//
// It offers:
//   - Path expressions selecting part of a value (e.g. "sceneItemTransform.positionX"
//     or "inputLevelsMul[0][1]")
//   - Case-insensitive entity name resolution against a registry
//   - Text, JSON and YAML formatting that keeps map order and scalar kinds
package inspect
