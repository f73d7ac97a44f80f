package escalation

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net"
	"strconv"

	sderrors "github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/rileyhilliard/sysdash/internal/metrics"
)

// Classify turns any error into a *Failure. Rules, first match wins:
//
//  1. already a *Failure: keep its kind and severity
//  2. permission or not-found OS errors: SYSTEM/HIGH
//  3. connectivity errors: NETWORK/MEDIUM
//  4. malformed data: DATA/MEDIUM
//  5. anything else: SYSTEM/MEDIUM
//
// A nil error classifies to nil.
func Classify(err error) *Failure {
	if err == nil {
		return nil
	}

	var f *Failure
	if errors.As(err, &f) {
		return f
	}

	f = &Failure{Message: err.Error(), Cause: err}

	var ce *metrics.CollectionError
	if errors.As(err, &ce) {
		f.Source = ce.Source.String()
		if ce.Cause != nil {
			f.Message = ce.Cause.Error()
		}
	}

	switch {
	case errors.Is(err, fs.ErrPermission), errors.Is(err, fs.ErrNotExist):
		f.Kind, f.Severity = KindSystem, SeverityHigh
	case isConnectivity(err):
		f.Kind, f.Severity = KindNetwork, SeverityMedium
	case isMalformed(err):
		f.Kind, f.Severity = KindData, SeverityMedium
	default:
		f.Kind, f.Severity = KindSystem, SeverityMedium
	}

	return f
}

// isConnectivity matches socket-level failures. Deadline and cancellation
// errors are excluded: a collector timing out is a slow OS query, not a
// network problem.
func isConnectivity(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	if isConnectivityErrno(err) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isMalformed(err error) bool {
	if errors.Is(err, sderrors.MalformedData) {
		return true
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return true
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return true
	}
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &typeErr)
}
