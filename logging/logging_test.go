package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSetupWritesToFile(t *testing.T) {
	defer Set(zap.NewNop())
	path := filepath.Join(t.TempDir(), "dashboard.log")

	cleanup, err := Setup("warn", path)
	require.NoError(t, err)
	Infof("hidden %d", 1)
	Warnf("slot %s failed", "cases")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "WARN")
	assert.Contains(t, string(data), "slot cases failed")
	assert.NotContains(t, string(data), "hidden")
}

func TestSetupUnknownLevel(t *testing.T) {
	defer Set(zap.NewNop())
	path := filepath.Join(t.TempDir(), "dashboard.log")

	cleanup, err := Setup("loud", path)
	require.NoError(t, err)
	Debugf("debug line")
	Infof("info line")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "info line")
	assert.NotContains(t, string(data), "debug line")
}
