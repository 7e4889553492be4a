package soil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseSwitchCommand accepts both variants case-insensitively.
func TestParseSwitchCommand(t *testing.T) {
	t.Parallel()

	cmd, err := ParseSwitchCommand("on")
	require.NoError(t, err)
	require.Equal(t, SwitchOn, cmd)

	cmd, err = ParseSwitchCommand(" OFF ")
	require.NoError(t, err)
	require.Equal(t, SwitchOff, cmd)

	_, err = ParseSwitchCommand("TOGGLE")
	require.Error(t, err)
}

// TestSwitchCommand_String covers known and unknown variants.
func TestSwitchCommand_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "ON", SwitchOn.String())
	require.Equal(t, "OFF", SwitchOff.String())
	require.Equal(t, "SwitchCommand(7)", SwitchCommand(7).String())

	require.True(t, SwitchOn.Valid())
	require.True(t, SwitchOff.Valid())
	require.False(t, SwitchCommand(-1).Valid())
}
