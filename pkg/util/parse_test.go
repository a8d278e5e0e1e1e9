package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFloat(t *testing.T) {
	assert.Equal(t, 1.5, ParseFloat("1.5", 0))
	assert.Equal(t, 0.0026, ParseFloat("", 0.0026))
	assert.Equal(t, 0.0026, ParseFloat("abc", 0.0026))
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, int64(42), ParseInt("42", 0))
	assert.Equal(t, int64(7), ParseInt("", 7))
	assert.Equal(t, int64(7), ParseInt("x", 7))
}

func TestParseUnix(t *testing.T) {
	assert.Equal(t, int64(1700000000), ParseUnix("1700000000"))
	assert.Equal(t, int64(0), ParseUnix(""))
	assert.Equal(t, int64(0), ParseUnix("not a time"))

	got := ParseUnix("2024-01-02")
	assert.Equal(t, int64(1704153600), got)

	got = ParseUnix("2024-01-02T03:04:05Z")
	assert.Equal(t, int64(1704164645), got)
}
