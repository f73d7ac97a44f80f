//go:build unix

package escalation

import (
	"errors"

	"golang.org/x/sys/unix"
)

var connectivityErrnos = []unix.Errno{
	unix.ECONNREFUSED,
	unix.ECONNRESET,
	unix.ECONNABORTED,
	unix.ENETDOWN,
	unix.ENETUNREACH,
	unix.ENETRESET,
	unix.EHOSTUNREACH,
	unix.ETIMEDOUT,
	unix.EPIPE,
}

func isConnectivityErrno(err error) bool {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return false
	}
	for _, e := range connectivityErrnos {
		if errno == e {
			return true
		}
	}
	return false
}
