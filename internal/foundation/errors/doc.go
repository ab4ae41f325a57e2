// Package errors provides foundational, type-safe error primitives used across blogsmith.
//
// This package contains classified error types and helpers for robust error handling,
// including a fluent builder API for constructing ClassifiedError values with context.
//
// Key features:
//   - ErrorCategory: Broad error classification (config, git, publish, build, etc.)
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - CLI adapter mapping classified errors to process exit codes
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryGit, "subtree split failed").
//		WithContext("branch", draftBranch).
//		WithCause(originalErr).
//		Build()
package errors
