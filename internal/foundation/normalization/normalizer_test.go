package normalization

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type level string

func TestNormalize_KnownValues(t *testing.T) {
	n := NewNormalizer(map[string]level{"debug": "debug", "info": "info"}, "info")

	require.Equal(t, level("debug"), n.Normalize("debug"))
	require.Equal(t, level("debug"), n.Normalize("  DEBUG "))
	require.Equal(t, level("info"), n.Normalize("unknown"))
	require.Equal(t, level("info"), n.Normalize(""))
}

func TestNormalizeWithError(t *testing.T) {
	n := NewNormalizer(map[string]level{"json": "json", "text": "text"}, "text")

	v, err := n.NormalizeWithError("JSON")
	require.NoError(t, err)
	require.Equal(t, level("json"), v)

	_, err = n.NormalizeWithError("xml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "valid options")
}

func TestValidKeys_SortedAndCopied(t *testing.T) {
	n := NewNormalizer(map[string]level{"b": "b", "a": "a"}, "a")

	keys := n.ValidKeys()
	require.Equal(t, []string{"a", "b"}, keys)

	keys[0] = "mutated"
	require.Equal(t, []string{"a", "b"}, n.ValidKeys())
}
