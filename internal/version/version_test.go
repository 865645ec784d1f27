package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "v1.2.3"
	got := String()
	if !strings.HasPrefix(got, "v1.2.3 ") {
		t.Errorf("expected version prefix, got %q", got)
	}
	if !strings.Contains(got, "commit "+GitCommit) {
		t.Errorf("expected commit in %q", got)
	}
}
