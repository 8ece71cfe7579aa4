// Package manifest holds the published shape of the OBS protocol entities
// and audits a codec registry against it.
//
// Manifests are embedded YAML files, one per protocol version. Each lists the
// entities with their ordered wire keys, the flag sets with their bits and
// the enumerations with their symbols. Audit compares them with the schemas
// compiled into a codec.Registry, so drift between the two is caught by a
// test instead of by a failed decode in production.
package manifest
