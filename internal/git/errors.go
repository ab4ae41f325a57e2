package git

import (
	"strings"

	"github.com/blogsmith/blogsmith/internal/foundation/errors"
)

// GitError simplifies creating a git-scoped ClassifiedError.
func GitError(message string) *errors.ErrorBuilder {
	return errors.NewError(errors.CategoryGit, message)
}

// FileSystemError creates a filesystem-scoped ClassifiedError.
func FileSystemError(message string) *errors.ErrorBuilder {
	return errors.NewError(errors.CategoryFileSystem, message)
}

// ClassifyGitError translates go-git errors into ClassifiedErrors.
func ClassifyGitError(err error, op string, subject string) error {
	if err == nil {
		return nil
	}

	// Already classified
	if _, ok := errors.AsClassified(err); ok {
		return err
	}

	builder := GitError("git operation failed").
		WithCause(err).
		WithContext("op", op).
		WithContext("subject", subject)

	l := strings.ToLower(err.Error())
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "not authorized") || strings.Contains(l, "invalid credentials"):
		builder.WithCategory(errors.CategoryNetwork)
	case strings.Contains(l, "reference not found") || strings.Contains(l, "branch not found") || strings.Contains(l, "does not exist"):
		builder.WithCategory(errors.CategoryNotFound)
	case strings.Contains(l, "connection refused") || strings.Contains(l, "connection reset") || strings.Contains(l, "timeout") || strings.Contains(l, "no route to host") || strings.Contains(l, "no such host"):
		builder.WithCategory(errors.CategoryNetwork)
	case strings.Contains(l, "empty commit"):
		builder = GitError("nothing staged to commit").WithCause(err).WithContext("op", op)
	}

	return builder.Build()
}
