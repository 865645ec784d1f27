package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field names shared by every package.
const (
	KeyRunID       = "run_id"
	KeyHook        = "hook"
	KeyDirectory   = "directory"
	KeyPath        = "path"
	KeyOutput      = "output"
	KeyCount       = "count"
	KeyBytes       = "bytes"
	KeyDurationMS  = "duration_ms"
	KeyFingerprint = "fingerprint"
	KeyError       = "error"
)

func RunID(id string) slog.Attr          { return slog.String(KeyRunID, id) }
func Hook(identifier string) slog.Attr   { return slog.String(KeyHook, identifier) }
func Directory(dir string) slog.Attr     { return slog.String(KeyDirectory, dir) }
func Path(p string) slog.Attr            { return slog.String(KeyPath, p) }
func Output(p string) slog.Attr          { return slog.String(KeyOutput, p) }
func Count(n int) slog.Attr              { return slog.Int(KeyCount, n) }
func Bytes(n int) slog.Attr              { return slog.Int(KeyBytes, n) }
func Fingerprint(fp string) slog.Attr    { return slog.String(KeyFingerprint, fp) }
func Duration(d time.Duration) slog.Attr { return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
