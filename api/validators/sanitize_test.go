package validators

import (
	"net/http/httptest"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestSanitizeStringCollapsesWhitespace(t *testing.T) {
	require.Equal(t, "Ada Lovelace", SanitizeString("  Ada \t  Lovelace \n", 100))
	require.Equal(t, "", SanitizeString("   ", 100))
	require.Equal(t, "no cap", SanitizeString("no   cap", 0))
}

func TestSanitizeStringCutsOnRuneBoundary(t *testing.T) {
	got := SanitizeString("Zoë Brontë", 3)
	require.Equal(t, "Zoë", got)
	require.True(t, utf8.ValidString(got))

	require.Equal(t, "Zoë", SanitizeString("Zoë Brontë", 4), "trailing space is trimmed after the cut")
}

func TestSanitizeQuery(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/hospitals?city=%20S%C3%A3o%20%20Paulo%20", nil)
	require.Equal(t, "São Paulo", SanitizeQuery(req, "city", 100))
	require.Equal(t, "", SanitizeQuery(req, "search", 100))
}
