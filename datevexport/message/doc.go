// Package message builds the bilingual, severity-tagged log messages emitted
// by the export pipeline.
//
// Messages are plain values: a locale→text map, a metadata bag, and a
// severity. They are rendered to end users and persisted as audit entries by
// an external log writer, so recoverable conditions are expressed as messages
// and never as errors.
package message
