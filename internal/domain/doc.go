// Package domain contains the core entities and value objects for ooqd.
//
// This package is the innermost layer. It has no dependencies on
// infrastructure concerns (file system, logging, handlers) and holds only the
// queue vocabulary and its limits.
//
// # Entities
//
//   - [Invocation]: one parsed queue line (argv, optional output target)
//   - [DrainStats]: summary of a single pass over the current-work file
//
// # Limits
//
// The queue format is line oriented with a fixed read window of
// [LineWindow] bytes, so a line may hold at most [MaxLineLen] bytes including
// its newline. An invocation has [MaxArgs] argv slots with the last one
// kept empty, which leaves [MaxRealArgs] for the command and its arguments.
package domain
