package instance

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetIDPrefersExplicitID(t *testing.T) {
	t.Setenv("DYNO", "web.1")
	t.Setenv("BLOODBANK_INSTANCE_ID", "api-7")
	require.Equal(t, "api-7", GetID())

	t.Setenv("BLOODBANK_INSTANCE_ID", "")
	require.Equal(t, "web.1", GetID())

	t.Setenv("DYNO", "")
	require.NotEmpty(t, GetID())
}
