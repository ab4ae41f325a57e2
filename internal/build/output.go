package build

import (
	"os"
	"path/filepath"

	"github.com/blogsmith/blogsmith/internal/foundation/errors"
)

// VerifyOutput checks that the build output directory exists and is non-empty.
// Publishing an absent or empty output would push an empty site, so this is
// checked before the publish sequence ever touches a branch.
func VerifyOutput(repoDir, outputDir string) error {
	full := filepath.Join(repoDir, outputDir)

	info, err := os.Stat(full)
	if os.IsNotExist(err) {
		return errors.BuildError("build output directory does not exist").
			WithContext("dir", outputDir).
			Build()
	}
	if err != nil {
		return errors.FileSystemError("failed to stat build output").
			WithContext("dir", outputDir).
			WithCause(err).
			Build()
	}
	if !info.IsDir() {
		return errors.BuildError("build output path is not a directory").
			WithContext("dir", outputDir).
			Build()
	}

	entries, err := os.ReadDir(full)
	if err != nil {
		return errors.FileSystemError("failed to read build output").
			WithContext("dir", outputDir).
			WithCause(err).
			Build()
	}
	if len(entries) == 0 {
		return errors.BuildError("build output directory is empty").
			WithContext("dir", outputDir).
			Build()
	}
	return nil
}
