package periph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
)

// TestDecodeSample keeps the two result bytes in range.
func TestDecodeSample(t *testing.T) {
	t.Parallel()

	require.Equal(t, int16(0), decodeSample([]byte{0xff, 0x00, 0x00}))
	require.Equal(t, int16(1023), decodeSample([]byte{0x00, 0x03, 0xff}))
	require.Equal(t, int16(475), decodeSample([]byte{0x00, 0xfd, 0xdb}))
}

// TestSPIFrequency derives the clock from the acquisition time within chip limits.
func TestSPIFrequency(t *testing.T) {
	t.Parallel()

	require.Equal(t, 150*physic.KiloHertz, spiFrequency(10*time.Microsecond))
	require.Equal(t, maxSPIFrequency, spiFrequency(0))
	require.Equal(t, maxSPIFrequency, spiFrequency(100*time.Nanosecond))
	require.Equal(t, minSPIFrequency, spiFrequency(time.Second))
}
