package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStep       = "step"
	KeyBranch     = "branch"
	KeyRemote     = "remote"
	KeyCommit     = "commit"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyPost       = "post"
	KeySlug       = "slug"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyName       = "name"
	KeyURL        = "url"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Step(name string) slog.Attr      { return slog.String(KeyStep, name) }
func Branch(b string) slog.Attr       { return slog.String(KeyBranch, b) }
func Remote(r string) slog.Attr       { return slog.String(KeyRemote, r) }
func Commit(hash string) slog.Attr    { return slog.String(KeyCommit, hash) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Post(p string) slog.Attr         { return slog.String(KeyPost, p) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Name(n string) slog.Attr         { return slog.String(KeyName, n) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
