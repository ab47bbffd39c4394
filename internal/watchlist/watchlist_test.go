package watchlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaults = []string{"AAPL", "GOOGL", "MSFT"}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "symbols.json"), defaults)
	assert.Equal(t, defaults, l.Load())
}

func TestLoad_InvalidContentUsesDefaults(t *testing.T) {
	cases := map[string]string{
		"malformed": `{not json`,
		"object":    `{"symbols": ["TSLA"]}`,
		"empty":     `[]`,
		"blank":     `["", "  "]`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "symbols.json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			assert.Equal(t, defaults, New(path, defaults).Load())
		})
	}
}

func TestLoad_SavedSymbols(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbols.json")
	require.NoError(t, os.WriteFile(path, []byte(`["tsla", "NVDA", "TSLA"]`), 0o644))

	assert.Equal(t, []string{"TSLA", "NVDA"}, New(path, defaults).Load())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "symbols.json")

	l := New(path, defaults)
	l.Load()
	require.NoError(t, l.Add("amzn"))
	require.NoError(t, l.Remove("GOOGL"))
	require.NoError(t, l.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `["AAPL","MSFT","AMZN"]`, string(data))

	assert.Equal(t, []string{"AAPL", "MSFT", "AMZN"}, New(path, defaults).Load())
}

func TestAdd(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "symbols.json"), defaults)
	l.Load()

	require.NoError(t, l.Add(" nvda "))
	assert.True(t, l.Contains("NVDA"))

	err := l.Add("aapl")
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.EqualError(t, err, "stock AAPL is already in the list")

	assert.Error(t, l.Add("   "))
	assert.Equal(t, []string{"AAPL", "GOOGL", "MSFT", "NVDA"}, l.Symbols())
}

func TestRemove(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "symbols.json"), defaults)
	l.Load()

	require.NoError(t, l.Remove("msft"))
	assert.False(t, l.Contains("MSFT"))
	assert.ErrorIs(t, l.Remove("MSFT"), ErrNotFound)
}

func TestSymbolsIsACopy(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "symbols.json"), defaults)
	l.Load()

	s := l.Symbols()
	s[0] = "XXXX"
	assert.Equal(t, "AAPL", l.Symbols()[0])
}
