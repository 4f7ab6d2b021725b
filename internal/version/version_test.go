package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserAgent(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "v1.2.3"
	assert.Equal(t, "bigbang/v1.2.3", UserAgent())

	Version = "v0.0.0-20301231235959-0123456789ab"
	assert.Len(t, UserAgent(), appIDLimit)
	assert.True(t, strings.HasPrefix(UserAgent(), "bigbang/v0.0.0"))
}

func TestInfo(t *testing.T) {
	assert.Contains(t, Info(), "bigbang "+Version)
	assert.Contains(t, Info(), "commit: "+Commit)
}
