package vmconfig

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emberlox/emberlox/internal/vm"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(`{}`))
	require.NoError(t, err)
	require.Equal(t, vm.StackMax, cfg.StackMax)
	require.Equal(t, vm.FramesMax, cfg.FramesMax)
	require.Equal(t, 1024*1024, cfg.GCInitialThreshold)
	require.False(t, cfg.GCStressMode)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestParse_Overrides(t *testing.T) {
	yaml := `
gcInitialThreshold: 2048
gcStressMode: true
logLevel: debug
`
	cfg, err := Parse([]byte(yaml))
	require.NoError(t, err)
	require.Equal(t, 2048, cfg.GCInitialThreshold)
	require.True(t, cfg.GCStressMode)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestParse_RejectsMismatchedStackMax(t *testing.T) {
	yaml := `stackMax: 99`
	_, err := Parse([]byte(yaml))
	require.Error(t, err)
}

func TestParse_RejectsBadLogLevel(t *testing.T) {
	yaml := `logLevel: verbose`
	_, err := Parse([]byte(yaml))
	require.Error(t, err)
}

func TestParse_RejectsNonPositiveThreshold(t *testing.T) {
	yaml := `gcInitialThreshold: 0`
	_, err := Parse([]byte(yaml))
	require.Error(t, err)
}
