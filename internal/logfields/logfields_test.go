package logfields

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAttrs(t *testing.T) {
	assert.Equal(t, "hook", Hook("useToggle").Key)
	assert.Equal(t, "useToggle", Hook("useToggle").Value.String())
	assert.Equal(t, int64(3), Count(3).Value.Int64())
	assert.Equal(t, "output", Output("README.md").Key)
}

func TestDuration(t *testing.T) {
	attr := Duration(1500 * time.Microsecond)
	assert.Equal(t, KeyDurationMS, attr.Key)
	assert.InDelta(t, 1.5, attr.Value.Float64(), 0.0001)
}

func TestError(t *testing.T) {
	assert.Equal(t, "", Error(nil).Value.String())
	assert.Equal(t, "boom", Error(errors.New("boom")).Value.String())
}
