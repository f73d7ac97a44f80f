//go:build unix

package escalation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestClassify_Errno(t *testing.T) {
	tests := []struct {
		errno    unix.Errno
		kind     Kind
		severity Severity
	}{
		{unix.EACCES, KindSystem, SeverityHigh},
		{unix.EPERM, KindSystem, SeverityHigh},
		{unix.ENOENT, KindSystem, SeverityHigh},
		{unix.ECONNREFUSED, KindNetwork, SeverityMedium},
		{unix.ENETUNREACH, KindNetwork, SeverityMedium},
		{unix.EHOSTUNREACH, KindNetwork, SeverityMedium},
		{unix.ETIMEDOUT, KindNetwork, SeverityMedium},
		{unix.EIO, KindSystem, SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.errno.Error(), func(t *testing.T) {
			f := Classify(fmt.Errorf("syscall: %w", tt.errno))
			assert.Equal(t, tt.kind, f.Kind)
			assert.Equal(t, tt.severity, f.Severity)
		})
	}
}
