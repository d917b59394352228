// Package zap provides the zap-backed implementation of the log.Logger
// interface used by the export pipeline.
package zap
