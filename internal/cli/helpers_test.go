package cli

import (
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// withConfigFile points --config at a fresh path in a temp dir for the
// duration of the test.
func withConfigFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	old := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = old })
	return path
}
