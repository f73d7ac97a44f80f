//go:build !unix

package escalation

// Without unix errnos, connectivity is recognized from *net.OpError only.
func isConnectivityErrno(error) bool {
	return false
}
