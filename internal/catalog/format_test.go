package catalog

import (
	"testing"

	"github.com/mmcloughlin/geohash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatter_Price(t *testing.T) {
	f, err := NewFormatter("")
	require.NoError(t, err)

	tests := []struct {
		price float64
		want  string
	}{
		{695000, "LKR 695,000"},
		{165000, "LKR 165,000"},
		{999.6, "LKR 1,000"},
		{0, "LKR 0"},
		{1250000, "LKR 1,250,000"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Price(tt.price))
		})
	}
}

func TestFormatter_OtherCurrency(t *testing.T) {
	f, err := NewFormatter("GBP")
	require.NoError(t, err)
	assert.Equal(t, "GBP 375,000", f.Price(375000))
}

func TestFormatter_InvalidCurrency(t *testing.T) {
	_, err := NewFormatter("ZZZZ")
	require.Error(t, err)
	assert.Equal(t, ErrCodeGeneric, ErrorCode(err))
}

func TestFormatter_Date(t *testing.T) {
	f, err := NewFormatter(DefaultCurrency)
	require.NoError(t, err)

	assert.Equal(t, "15 July 2025", f.Date("2025-07-15"))
	assert.Equal(t, "5 October 2025", f.Date("2025-10-05"))
	assert.Equal(t, "someday", f.Date("someday"))
}

func TestProperty_Geohash(t *testing.T) {
	p := Property{Coordinates: &Coordinates{Lat: 51.4039, Lng: 0.0198}}

	hash := p.Geohash()
	require.Len(t, hash, 7)

	lat, lng := geohash.Decode(hash)
	assert.InDelta(t, 51.4039, lat, 0.01)
	assert.InDelta(t, 0.0198, lng, 0.01)

	assert.Empty(t, Property{}.Geohash())
}
