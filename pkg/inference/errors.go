package inference

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrUnreachable means the backend could not be contacted at all.
	ErrUnreachable = errors.New("inference backend unreachable")

	// ErrTimeout means the backend did not answer in time.
	ErrTimeout = errors.New("inference request timed out")

	// ErrCancelled means the caller aborted the request.
	ErrCancelled = errors.New("inference request cancelled")
)

// HTTPError carries a non-2xx status from the backend.
type HTTPError struct {
	Code int
	Body string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("inference backend error: status %d: %s", e.Code, e.Body)
}

// WrapTransportError maps a raw transport failure onto the error kinds the
// orchestrator distinguishes. HTTP status errors are built by the providers
// themselves via HTTPError.
func WrapTransportError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return ErrCancelled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}
