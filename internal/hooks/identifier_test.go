package hooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentifier(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{"use-local-storage", "useLocalStorage"},
		{"use-is-first-render", "useIsFirstRender"},
		{"use-toggle", "useToggle"},
		{"use-axios", "useAxios"},
		{"use", "use"},
		{"use-x", "useX"},
		{"use--double", "useDouble"},
		{"use-trailing-", "useTrailing"},
		{"use-iOS-flag", "useIOSFlag"},
		{"use-2d-canvas", "use2dCanvas"},
		{"use-\u00e9lan", "use\u00c9lan"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			assert.Equal(t, tt.want, Identifier(tt.dir))
		})
	}
}

func TestIdentifier_NormalizesDecomposedNames(t *testing.T) {
	// "e" followed by a combining acute accent, as reported by NFD filesystems.
	decomposed := "use-e\u0301lan"
	assert.Equal(t, "use\u00c9lan", Identifier(decomposed))
}
