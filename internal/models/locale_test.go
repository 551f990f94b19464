package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultLocale(t *testing.T) {
	loc := DefaultLocale()
	require.Equal(t, "us", loc.Country)
	require.Equal(t, "en", loc.HL)
	require.Equal(t, "US", loc.GL)
	require.Equal(t, 2840, loc.LocationCode)
	require.Equal(t, "en", loc.LanguageCode)
	require.Equal(t, 1.0, loc.Weight)
	require.Equal(t, "en-2840", loc.Label())
}

func TestParseLocale(t *testing.T) {
	t.Run("full", func(t *testing.T) {
		loc, err := ParseLocale("DE:de:de:2276:de:0.5")
		require.NoError(t, err)
		require.Equal(t, LocaleSpec{
			Country:      "de",
			HL:           "de",
			GL:           "DE",
			LocationCode: 2276,
			LanguageCode: "de",
			Weight:       0.5,
		}, loc)
		require.Equal(t, "de-2276", loc.Label())
	})

	t.Run("empty fields keep defaults", func(t *testing.T) {
		loc, err := ParseLocale("gb::gb")
		require.NoError(t, err)
		require.Equal(t, "gb", loc.Country)
		require.Equal(t, "en", loc.HL)
		require.Equal(t, "GB", loc.GL)
		require.Equal(t, 2840, loc.LocationCode)
	})

	t.Run("empty string is the default locale", func(t *testing.T) {
		loc, err := ParseLocale("")
		require.NoError(t, err)
		require.Equal(t, DefaultLocale(), loc)
	})

	for _, bad := range []string{"us:en:US:abc", "us:en:US:2840:en:heavy", "a:b:c:1:d:1:extra"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			_, err := ParseLocale(bad)
			require.Error(t, err)
		})
	}
}
