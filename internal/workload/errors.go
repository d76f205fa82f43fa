package workload

import (
	"errors"
	"fmt"

	"github.com/Azure/instigator/internal/apply"
)

var (
	// ErrUnsupportedWorkloadKind is matched by errors returned for workload types without a variant.
	ErrUnsupportedWorkloadKind = errors.New("unsupported workload kind")

	// ErrRetryCeilingExhausted is matched by terminal errors for run-to-completion
	// workloads that failed more times than their retry ceiling allows.
	ErrRetryCeilingExhausted = errors.New("retry ceiling exhausted")

	// ErrSerialization is an alias of apply.ErrSerialization for callers of this package.
	ErrSerialization = apply.ErrSerialization
)

type UnsupportedKindError struct {
	Declared string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported workload kind %q", e.Declared)
}

func (e *UnsupportedKindError) Is(target error) bool { return target == ErrUnsupportedWorkloadKind }

// TerminalError reports a workload that reached a final failed state.
// Reconciling it again won't change the outcome.
type TerminalError struct {
	Resource string
	Reason   string
	Message  string
}

func (e *TerminalError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s failed: %s", e.Resource, e.Reason)
	}
	return fmt.Sprintf("%s failed: %s: %s", e.Resource, e.Reason, e.Message)
}

func (e *TerminalError) Is(target error) bool { return target == ErrRetryCeilingExhausted }

// IsTerminal returns true when err should not be retried because the workload already failed for good.
func IsTerminal(err error) bool { return errors.Is(err, ErrRetryCeilingExhausted) }

// IsRetriable returns true for apiserver communication failures.
func IsRetriable(err error) bool { return apply.IsTransport(err) }
