package apply

import (
	"context"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/apiutil"
)

// FieldManager identifies this process in managedFields.
const FieldManager = "instigator"

// Raw submits resources as unstructured documents through the dynamic client,
// addressed by group, version, resource, and namespace.
// It's useful when the target cluster serves a kind that isn't compiled into the scheme.
type Raw struct {
	dynamic dynamic.Interface
	mapper  meta.RESTMapper
	scheme  *runtime.Scheme
}

var _ Client = (*Raw)(nil)

// NewRaw returns a raw client. The scheme is only used to find the GVK of typed objects,
// and DefaultRESTMapper is used when mapper is nil.
func NewRaw(dyn dynamic.Interface, mapper meta.RESTMapper, scheme *runtime.Scheme) *Raw {
	if mapper == nil {
		mapper = DefaultRESTMapper()
	}
	return &Raw{dynamic: dyn, mapper: mapper, scheme: scheme}
}

// DefaultRESTMapper maps the kinds produced by workload synthesis without discovery.
func DefaultRESTMapper() meta.RESTMapper {
	m := meta.NewDefaultRESTMapper([]schema.GroupVersion{
		batchv1.SchemeGroupVersion,
		appsv1.SchemeGroupVersion,
		corev1.SchemeGroupVersion,
	})
	m.Add(batchv1.SchemeGroupVersion.WithKind("Job"), meta.RESTScopeNamespace)
	m.Add(appsv1.SchemeGroupVersion.WithKind("Deployment"), meta.RESTScopeNamespace)
	m.Add(corev1.SchemeGroupVersion.WithKind("Service"), meta.RESTScopeNamespace)
	m.Add(corev1.SchemeGroupVersion.WithKind("Pod"), meta.RESTScopeNamespace)
	return m
}

func (r *Raw) Create(ctx context.Context, obj client.Object) (client.Object, error) {
	ref := describe(r.scheme, obj)
	ri, gvk, err := r.resourceFor(obj)
	if err != nil {
		return nil, classifyMapping("creating", ref, err)
	}

	content, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w: %w", ref, ErrSerialization, err)
	}
	u := &unstructured.Unstructured{Object: content}
	u.SetGroupVersionKind(gvk)

	created, err := ri.Create(ctx, u, metav1.CreateOptions{FieldManager: FieldManager})
	if err != nil {
		return nil, classify("creating", ref, err)
	}
	return created, nil
}

func (r *Raw) Get(ctx context.Context, obj client.Object) error {
	ref := describe(r.scheme, obj)
	ri, _, err := r.resourceFor(obj)
	if err != nil {
		return classifyMapping("getting", ref, err)
	}

	current, err := ri.Get(ctx, obj.GetName(), metav1.GetOptions{})
	if err != nil {
		return classify("getting", ref, err)
	}

	if u, ok := obj.(*unstructured.Unstructured); ok {
		u.Object = current.Object
		return nil
	}
	if err := runtime.DefaultUnstructuredConverter.FromUnstructured(current.Object, obj); err != nil {
		return fmt.Errorf("getting %s: %w: %w", ref, ErrSerialization, err)
	}
	return nil
}

func (r *Raw) resourceFor(obj client.Object) (dynamic.ResourceInterface, schema.GroupVersionKind, error) {
	gvk, err := apiutil.GVKForObject(obj, r.scheme)
	if err != nil {
		return nil, gvk, err
	}

	mapping, err := r.mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return nil, gvk, err
	}

	if mapping.Scope.Name() == meta.RESTScopeNameNamespace {
		return r.dynamic.Resource(mapping.Resource).Namespace(obj.GetNamespace()), gvk, nil
	}
	return r.dynamic.Resource(mapping.Resource), gvk, nil
}

func classifyMapping(op, ref string, err error) error {
	if meta.IsNoMatchError(err) {
		return fmt.Errorf("%s %s: no resource mapping: %w", op, ref, err)
	}
	return classify(op, ref, err)
}
