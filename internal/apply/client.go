package apply

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/apiutil"
)

// Creator submits fully synthesized resources to the apiserver.
type Creator interface {
	// Create returns the resource as stored by apiserver, or an error.
	// The given object is never modified.
	Create(ctx context.Context, obj client.Object) (client.Object, error)
}

// Getter reads the current state of a resource into obj, keyed by obj's name and namespace.
type Getter interface {
	Get(ctx context.Context, obj client.Object) error
}

// Client is the capability handed to workload variants.
// Implementations hold no per-call state and are safe for concurrent use.
type Client interface {
	Creator
	Getter
}

// Typed submits resources through a controller-runtime client.
type Typed struct {
	client client.Client
}

var _ Client = (*Typed)(nil)

func NewTyped(cli client.Client) *Typed {
	return &Typed{client: cli}
}

func (t *Typed) Create(ctx context.Context, obj client.Object) (client.Object, error) {
	// controller-runtime writes the response back into the request object
	out, ok := obj.DeepCopyObject().(client.Object)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a client.Object", ErrSerialization, obj)
	}
	if err := t.client.Create(ctx, out, client.FieldOwner(FieldManager)); err != nil {
		return nil, classify("creating", describe(t.client.Scheme(), obj), err)
	}
	return out, nil
}

func (t *Typed) Get(ctx context.Context, obj client.Object) error {
	return classify("getting", describe(t.client.Scheme(), obj), t.client.Get(ctx, client.ObjectKeyFromObject(obj), obj))
}

func describe(scheme *runtime.Scheme, obj client.Object) string {
	kind := fmt.Sprintf("%T", obj)
	if scheme != nil {
		if gvk, err := apiutil.GVKForObject(obj, scheme); err == nil {
			kind = gvk.Kind
		}
	}
	return fmt.Sprintf("%s %s/%s", kind, obj.GetNamespace(), obj.GetName())
}
