package numbering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefix_UsesLocalCalendar(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	// 20:30 UTC on the 14th is already the 15th in UTC+7.
	at := time.Date(2025, 6, 14, 20, 30, 0, 0, time.UTC)

	assert.Equal(t, "INV-20250615", Prefix(Invoice, at, jakarta))
	assert.Equal(t, "TX-20250614", Prefix(Draft, at, time.UTC))
}

func TestFormatAndParse(t *testing.T) {
	assert.Equal(t, "INV-20250615-0001", Format("INV-20250615", 1))
	assert.Equal(t, "TX-20250615-0042", Format("TX-20250615", 42))
	assert.Equal(t, "INV-20250615-10000", Format("INV-20250615", 10000))

	prefix, seq, err := Parse("INV-20250615-0042")
	require.NoError(t, err)
	assert.Equal(t, "INV-20250615", prefix)
	assert.Equal(t, int64(42), seq)

	prefix, seq, err = Parse("TX-20250615-10000")
	require.NoError(t, err)
	assert.Equal(t, "TX-20250615", prefix)
	assert.Equal(t, int64(10000), seq)
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"INV-20250615",
		"INV-20250615-",
		"INV-20250615-12",
		"INV-20250615-abcd",
		"INV-20250615-0000",
		"ABC-20250615-0001",
		"INV-2025061-0001",
	} {
		_, _, err := Parse(in)
		assert.Error(t, err, in)
	}
}
