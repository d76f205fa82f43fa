package workload

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/Azure/instigator/internal/apply"
	"github.com/Azure/instigator/internal/identity"
	"github.com/Azure/instigator/internal/schematic"
)

// Instigator selects the workload variant for a component's declared kind and applies it.
//
// It's a pure dispatcher: retries, backoff, and per-instance serialization belong to
// whatever decides when to reconcile. A single Instigator may be used concurrently.
type Instigator struct {
	client apply.Client
}

func NewInstigator(cli apply.Client) *Instigator {
	return &Instigator{client: cli}
}

// Reconcile drives the resources of one component instance into existence.
//
// Unsupported kinds fail before any request is sent to apiserver. Resources created
// before a failure are kept; convergence comes from calling Reconcile again.
func (i *Instigator) Reconcile(ctx context.Context, def *schematic.Component, id identity.Instance, params schematic.ParamMap) (err error) {
	if def == nil {
		return fmt.Errorf("component definition is required")
	}
	kind, err := ParseKind(def.WorkloadType)
	if err != nil {
		reconcileTotal.WithLabelValues("unknown", "unsupported").Inc()
		return err
	}

	start := time.Now()
	defer func() {
		reconcileLatency.Observe(time.Since(start).Seconds())
		reconcileTotal.WithLabelValues(string(kind), resultLabel(err)).Inc()
	}()

	logger := logr.FromContextOrDiscard(ctx).WithValues(
		"reconcileID", uuid.NewString(),
		"workloadKind", kind,
		"namespace", id.Namespace,
		"componentName", id.ComponentName,
		"instanceName", id.InstanceName)
	ctx = logr.NewContext(ctx, logger)

	wt, err := New(kind, Options{
		Definition: def,
		Instance:   id,
		Params:     params,
		Client:     i.client,
	})
	if err != nil {
		return err
	}

	if err := wt.Apply(ctx); err != nil {
		if IsTerminal(err) {
			logger.V(0).Info("workload reached a terminal state", "error", err.Error())
		}
		return fmt.Errorf("applying %s workload: %w", kind, err)
	}

	logger.V(1).Info("reconciled workload")
	return nil
}
