package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigSetThenGet(t *testing.T) {
	path := withConfigFile(t)

	var out bytes.Buffer
	require.NoError(t, configSet(&out, "refresh.interval", "5s"))
	assert.Contains(t, out.String(), "refresh.interval = 5s")
	assert.Contains(t, out.String(), path)

	out.Reset()
	require.NoError(t, configGet(&out, "refresh.interval"))
	assert.Equal(t, "5s", strings.TrimSpace(out.String()))
}

func TestConfigSet_RejectsInvalid(t *testing.T) {
	withConfigFile(t)

	err := configSet(&bytes.Buffer{}, "refresh.interval", "100ms")
	require.Error(t, err)

	err = configSet(&bytes.Buffer{}, "nope.key", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown config key")
}

func TestConfigGet_AllKeys(t *testing.T) {
	path := withConfigFile(t)
	require.NoError(t, Init(InitOptions{Path: path, NonInteractive: true, Out: &bytes.Buffer{}}))

	var out bytes.Buffer
	require.NoError(t, configGet(&out, ""))
	assert.Contains(t, out.String(), "refresh.interval")
	assert.Contains(t, out.String(), "display.history_size")
}

func TestConfigGet_UnknownKey(t *testing.T) {
	path := withConfigFile(t)
	require.NoError(t, Init(InitOptions{Path: path, NonInteractive: true, Out: &bytes.Buffer{}}))

	err := configGet(&bytes.Buffer{}, "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown config key")
}

func TestConfigFilePath_Explicit(t *testing.T) {
	path := withConfigFile(t)
	require.NoError(t, Init(InitOptions{Path: path, NonInteractive: true, Out: &bytes.Buffer{}}))

	got, err := configFilePath()
	require.NoError(t, err)
	assert.Equal(t, path, got)
}
