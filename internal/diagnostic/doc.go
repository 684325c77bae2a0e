// Package diagnostic provides structured errors, warnings and notes produced
// while synthesizing a transformation.
//
// Key capabilities:
//   - Authoring diagnostics that are recoverable (a sentinel is emitted)
//   - Every diagnostic names the implicated node and its path
//   - Severity-aware logging through log/slog
package diagnostic
