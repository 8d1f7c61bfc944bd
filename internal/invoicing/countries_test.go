package invoicing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountryID(t *testing.T) {
	assert.Equal(t, int64(1), CountryID("PT"))
	assert.Equal(t, int64(1), CountryID("pt"))
	assert.Equal(t, int64(41), CountryID(" es "))
	assert.Equal(t, int64(0), CountryID("ZZ"))
	assert.Equal(t, int64(0), CountryID(""))
}

func TestNormalizePostalCode(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"1000-001", "1000-001"},
		{"1000001", "1000-001"},
		{"40001234", "4000-123"},
		{"4000", "4000-000"},
		{"400012", "4000-120"},
		{"4000-12", "4000-120"},
		{"123", "123"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePostalCode(tt.raw))
		})
	}
}
