package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserAgent(t *testing.T) {
	oldV, oldC := Version, Commit
	defer func() { Version, Commit = oldV, oldC }()

	Version, Commit = "1.2.0", ""
	require.Equal(t, "matchday/1.2.0", UserAgent())
	Commit = "abc123"
	require.Equal(t, "matchday/1.2.0+abc123", UserAgent())
	require.Equal(t, "1.2.0 (abc123)", String())
}
