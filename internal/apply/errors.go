package apply

import (
	"errors"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
)

var (
	// ErrAlreadyExists is returned by Create when a resource with the same name exists.
	// Names are deterministic per instance, so callers treat it as a successful no-op.
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrSerialization means a resource could not be encoded for transport or
	// apiserver rejected its payload. It indicates a synthesis or input bug
	// and is never worth retrying.
	ErrSerialization = errors.New("unable to serialize resource")
)

// TransportError wraps failures talking to the apiserver: network, authn, authz, etc.
// They are retriable, but not by this package.
type TransportError struct {
	Op       string
	Resource string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Resource, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsAlreadyExists returns true when err came from a create that collided with an existing resource.
func IsAlreadyExists(err error) bool { return errors.Is(err, ErrAlreadyExists) }

// IsTransport returns true for retriable apiserver communication errors.
func IsTransport(err error) bool {
	te := &TransportError{}
	return errors.As(err, &te)
}

func classify(op, ref string, err error) error {
	switch {
	case err == nil:
		return nil
	case apierrors.IsAlreadyExists(err):
		return fmt.Errorf("%s %s: %w", op, ref, ErrAlreadyExists)
	case runtime.IsNotRegisteredError(err), runtime.IsMissingKind(err), runtime.IsMissingVersion(err),
		apierrors.IsInvalid(err), apierrors.IsBadRequest(err), apierrors.IsUnsupportedMediaType(err):
		return fmt.Errorf("%s %s: %w: %w", op, ref, ErrSerialization, err)
	default:
		return &TransportError{Op: op, Resource: ref, Err: err}
	}
}
