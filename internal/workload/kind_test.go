package workload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var parseKindTests = []struct {
	Declared string
	Expected Kind
	Err      bool
}{
	{Declared: "Task", Expected: KindTask},
	{Declared: "core.oam.dev/v1alpha1.Task", Expected: KindTask},
	{Declared: "core.oam.dev/v1alpha1.SingletonTask", Expected: KindTask},
	{Declared: "ReplicatedTask", Expected: KindReplicatedTask},
	{Declared: "core.oam.dev/v1alpha1.Server", Expected: KindServer},
	{Declared: "core.oam.dev/v1alpha1.ReplicatedService", Expected: KindServer},
	{Declared: "Singleton", Expected: KindSingleton},
	{Declared: "core.oam.dev/v1alpha1.SingletonServer", Expected: KindSingleton},
	{Declared: "Worker", Expected: KindWorker},
	{Declared: "core.oam.dev/v1alpha1.ReplicatedWorker", Expected: KindWorker},
	{Declared: "SingletonWorker", Expected: KindSingletonWorker},
	{Declared: "", Err: true},
	{Declared: "task", Err: true},
	{Declared: "core.oam.dev/v1alpha2.Task", Err: true},
	{Declared: "apps/v1.Deployment", Err: true},
}

func TestParseKind(t *testing.T) {
	for _, tc := range parseKindTests {
		t.Run(tc.Declared, func(t *testing.T) {
			kind, err := ParseKind(tc.Declared)
			if tc.Err {
				assert.ErrorIs(t, err, ErrUnsupportedWorkloadKind)
				assert.Contains(t, err.Error(), tc.Declared)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.Expected, kind)
		})
	}
}

func TestKindsAreParseable(t *testing.T) {
	for _, kind := range Kinds() {
		parsed, err := ParseKind(string(kind))
		assert.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}
}

func TestTerminalError(t *testing.T) {
	err := &TerminalError{Resource: "job default/a", Reason: "BackoffLimitExceeded"}
	assert.True(t, IsTerminal(err))
	assert.False(t, IsRetriable(err))
	assert.Equal(t, "job default/a failed: BackoffLimitExceeded", err.Error())

	err.Message = "too many failures"
	assert.Equal(t, "job default/a failed: BackoffLimitExceeded: too many failures", err.Error())
}
