// Package log defines the structured logging contract used across the export
// pipeline. Implementations live in sibling packages (see datevexport/zap).
package log
