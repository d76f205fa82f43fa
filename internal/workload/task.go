package workload

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/go-logr/logr"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/Azure/instigator/internal/status"
	"github.com/Azure/instigator/internal/synthesis"
)

// DefaultBackoffLimit is the retry ceiling of run-to-completion workloads.
// The backoffLimit workload setting can lower it, never raise it.
const DefaultBackoffLimit int32 = 4

// Task is a non-daemon process, implemented as a Job whose pods are never restarted in place.
type Task struct {
	base
	replicated bool
}

func (t *Task) Synthesize() []client.Object {
	return []client.Object{t.ToJob()}
}

// ToJob builds the Job for the task.
func (t *Task) ToJob() *batchv1.Job {
	labels := t.labels()
	job := &batchv1.Job{
		TypeMeta:   metaTypeFor(batchv1.SchemeGroupVersion.WithKind("Job")),
		ObjectMeta: synthesis.ObjectMeta(t.id, labels),
		Spec: batchv1.JobSpec{
			BackoffLimit: ptr.To(t.backoffLimit()),
			Template:     synthesis.PodTemplate(t.id, labels, t.def.ToPodSpecWithPolicy(t.params, corev1.RestartPolicyNever)),
		},
	}
	if t.replicated {
		n := t.replicas(1)
		job.Spec.Parallelism = ptr.To(n)
		job.Spec.Completions = ptr.To(n)
	}
	return job
}

func (t *Task) Apply(ctx context.Context) error {
	return t.apply(ctx, t.Synthesize(), t.checkExisting)
}

// checkExisting surfaces a terminal failure when the existing job has exhausted its retries.
// Completed and in-progress jobs are left alone.
func (t *Task) checkExisting(ctx context.Context, obj client.Object) error {
	current := &batchv1.Job{}
	current.Name = obj.GetName()
	current.Namespace = obj.GetNamespace()
	err := t.client.Get(ctx, current)
	if apierrors.IsNotFound(err) {
		return nil // deleted since the create attempt - the next reconciliation will recreate it
	}
	if err != nil {
		return err
	}

	failed, ok, err := status.JobFailed.EvalObject(ctx, current)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	if ok {
		return &TerminalError{
			Resource: fmt.Sprintf("job %s/%s", current.Namespace, current.Name),
			Reason:   failed.Reason,
			Message:  failed.Message,
		}
	}

	if _, ok, _ := status.JobComplete.EvalObject(ctx, current); ok {
		logr.FromContextOrDiscard(ctx).V(1).Info("task has already completed")
	}
	return nil
}

func (t *Task) backoffLimit() int32 {
	val, ok := t.def.Setting("backoffLimit")
	if !ok {
		return DefaultBackoffLimit
	}
	limit, ok := toInt32(val)
	if !ok || limit < 0 || limit > DefaultBackoffLimit {
		return DefaultBackoffLimit
	}
	return limit
}

func toInt32(val any) (int32, bool) {
	var n int64
	switch v := val.(type) {
	case int:
		n = int64(v)
	case int32:
		n = int64(v)
	case int64:
		n = v
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt32 || v < math.MinInt32 {
			return 0, false
		}
		n = int64(v)
	case string:
		parsed, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0, false
	}
	return int32(n), true
}
