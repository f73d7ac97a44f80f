package doctor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminalCheck(t *testing.T) {
	yes := &TerminalCheck{IsTerminal: func() bool { return true }}
	assert.Equal(t, StatusPass, yes.Run(context.Background()).Status)

	no := &TerminalCheck{IsTerminal: func() bool { return false }}
	result := no.Run(context.Background())
	assert.Equal(t, StatusWarn, result.Status)
	assert.Contains(t, result.Suggestion, "snapshot")
}
