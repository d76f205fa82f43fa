package workload

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/Azure/instigator/internal/apply"
	"github.com/Azure/instigator/internal/identity"
	"github.com/Azure/instigator/internal/schematic"
	"github.com/Azure/instigator/internal/synthesis"
)

// WorkloadType synthesizes and applies the native resources for one kind of workload.
//
// Values are bound to a single component instance for the duration of one reconciliation
// and share no mutable state with each other.
type WorkloadType interface {
	Kind() Kind

	// Synthesize builds the resources without any I/O.
	// Repeated calls return equal resources.
	Synthesize() []client.Object

	// Apply creates any synthesized resources that don't exist yet.
	// Resources that already exist are left untouched.
	Apply(ctx context.Context) error
}

type Options struct {
	Definition *schematic.Component
	Instance   identity.Instance
	Params     schematic.ParamMap
	Client     apply.Client
}

// New returns the variant for kind, bound to the given inputs.
func New(kind Kind, opts Options) (WorkloadType, error) {
	if opts.Definition == nil {
		return nil, fmt.Errorf("component definition is required")
	}
	if err := opts.Definition.Validate(); err != nil {
		return nil, fmt.Errorf("invalid component definition: %w", err)
	}
	if err := opts.Instance.Validate(); err != nil {
		return nil, fmt.Errorf("invalid instance identity: %w", err)
	}
	if opts.Client == nil {
		return nil, fmt.Errorf("apply client is required")
	}

	b := base{
		kind:   kind,
		def:    opts.Definition,
		id:     opts.Instance,
		params: opts.Params,
		client: opts.Client,
	}
	if kind == KindServer || kind == KindSingleton {
		if len(opts.Definition.ServicePorts()) > 0 {
			if err := opts.Instance.ValidateServiceName(); err != nil {
				return nil, fmt.Errorf("invalid instance identity: %w", err)
			}
		}
	}

	switch kind {
	case KindTask:
		return &Task{base: b}, nil
	case KindReplicatedTask:
		return &Task{base: b, replicated: true}, nil
	case KindServer:
		return &Server{base: b, exposed: true}, nil
	case KindSingleton:
		return &Server{base: b, exposed: true, singleton: true}, nil
	case KindWorker:
		return &Server{base: b}, nil
	case KindSingletonWorker:
		return &Server{base: b, singleton: true}, nil
	default:
		return nil, &UnsupportedKindError{Declared: string(kind)}
	}
}

// base holds the inputs common to every variant.
type base struct {
	kind   Kind
	def    *schematic.Component
	id     identity.Instance
	params schematic.ParamMap
	client apply.Client
}

func (b *base) Kind() Kind { return b.kind }

func (b *base) labels() map[string]string { return synthesis.Labels(b.id) }

// replicas returns the declared replica count or fallback when none was declared.
func (b *base) replicas(fallback int32) int32 {
	if b.def.Replicas == nil {
		return fallback
	}
	return *b.def.Replicas
}

// existsFn is called for each resource that was already present in the cluster.
type existsFn func(ctx context.Context, obj client.Object) error

// apply creates objs in order, stopping at the first hard error.
// Earlier resources are not rolled back.
func (b *base) apply(ctx context.Context, objs []client.Object, exists existsFn) error {
	logger := logr.FromContextOrDiscard(ctx)
	for _, obj := range objs {
		kind := fmt.Sprintf("%T", obj)
		if gvk := obj.GetObjectKind().GroupVersionKind(); gvk.Kind != "" {
			kind = gvk.Kind
		}
		logger := logger.WithValues("resourceKind", kind, "resourceName", obj.GetName())

		_, err := b.client.Create(ctx, obj)
		if apply.IsAlreadyExists(err) {
			applyActions.WithLabelValues(string(b.kind), "noop").Inc()
			logger.V(1).Info("resource already exists")
			if exists == nil {
				continue
			}
			if err := exists(ctx, obj); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		applyActions.WithLabelValues(string(b.kind), "create").Inc()
		logger.V(0).Info("created resource")
	}
	return nil
}

// metaTypeFor makes synthesized resources self-describing so they can be submitted
// without consulting a scheme.
func metaTypeFor(gvk schema.GroupVersionKind) metav1.TypeMeta {
	apiVersion, kind := gvk.ToAPIVersionAndKind()
	return metav1.TypeMeta{APIVersion: apiVersion, Kind: kind}
}
