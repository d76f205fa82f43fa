package identity

import (
	"errors"
	"fmt"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/util/validation"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// Instance identifies one running occurrence of a component.
//
// InstanceName is the basis of every generated resource's name, so it must be stable
// across reconciliations of the same instance.
type Instance struct {
	Namespace     string
	ComponentName string
	InstanceName  string

	// Owners is recorded verbatim on every generated resource.
	Owners []metav1.OwnerReference
}

// New returns an instance that owns a copy of the given owner references.
func New(namespace, component, instance string, owners ...metav1.OwnerReference) Instance {
	return Instance{
		Namespace:     namespace,
		ComponentName: component,
		InstanceName:  instance,
		Owners:        copyOwners(owners),
	}
}

// OwnerReferences returns a copy of the owner reference chain, or nil if it's empty.
func (i Instance) OwnerReferences() []metav1.OwnerReference {
	return copyOwners(i.Owners)
}

func (i Instance) String() string {
	return fmt.Sprintf("%s/%s (component %s)", i.Namespace, i.InstanceName, i.ComponentName)
}

// Validate rejects identities that can't name a Kubernetes resource.
func (i Instance) Validate() error {
	if i.Namespace == "" {
		return errors.New("namespace is required")
	}
	if i.ComponentName == "" {
		return errors.New("component name is required")
	}
	if i.InstanceName == "" {
		return errors.New("instance name is required")
	}
	if errs := validation.IsDNS1123Label(i.Namespace); len(errs) > 0 {
		return fmt.Errorf("invalid namespace %q: %s", i.Namespace, strings.Join(errs, ", "))
	}
	if errs := validation.IsDNS1123Subdomain(i.InstanceName); len(errs) > 0 {
		return fmt.Errorf("invalid instance name %q: %s", i.InstanceName, strings.Join(errs, ", "))
	}
	// The instance name is also the value of the instance label
	if errs := validation.IsValidLabelValue(i.InstanceName); len(errs) > 0 {
		return fmt.Errorf("invalid instance name %q: %s", i.InstanceName, strings.Join(errs, ", "))
	}
	if errs := validation.IsValidLabelValue(i.ComponentName); len(errs) > 0 {
		return fmt.Errorf("invalid component name %q: %s", i.ComponentName, strings.Join(errs, ", "))
	}
	controllers := 0
	for _, ref := range i.Owners {
		if ref.APIVersion == "" || ref.Kind == "" || ref.Name == "" || ref.UID == "" {
			return fmt.Errorf("owner reference %q is incomplete", ref.Name)
		}
		if ptr.Deref(ref.Controller, false) {
			controllers++
		}
	}
	if controllers > 1 {
		return errors.New("at most one owner reference may be a controller")
	}
	return nil
}

// ValidateServiceName rejects instance names that can't also name a Service.
func (i Instance) ValidateServiceName() error {
	if errs := validation.IsDNS1035Label(i.InstanceName); len(errs) > 0 {
		return fmt.Errorf("instance name %q is not a valid service name: %s", i.InstanceName, strings.Join(errs, ", "))
	}
	return nil
}

// ControllerRef builds the owner reference that makes owner the managing controller
// of generated resources. The object's own TypeMeta is ignored in favor of gvk since
// typed objects read from the apiserver usually don't carry it.
func ControllerRef(owner client.Object, gvk schema.GroupVersionKind) metav1.OwnerReference {
	return *metav1.NewControllerRef(owner, gvk)
}

func copyOwners(in []metav1.OwnerReference) []metav1.OwnerReference {
	if len(in) == 0 {
		return nil
	}
	out := make([]metav1.OwnerReference, len(in))
	for i := range in {
		in[i].DeepCopyInto(&out[i])
	}
	return out
}
