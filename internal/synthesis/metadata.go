package synthesis

import (
	"maps"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/Azure/instigator/internal/identity"
)

const (
	// LabelApp carries the component name.
	LabelApp = "app"

	// LabelInstance distinguishes instances of the same component sharing a namespace.
	LabelInstance = "app.kubernetes.io/instance"

	ManagerLabelKey   = "app.kubernetes.io/managed-by"
	ManagerLabelValue = "instigator"
)

// Labels derives the label set shared by a generated resource and its pods.
func Labels(id identity.Instance) map[string]string {
	return map[string]string{
		LabelApp:        id.ComponentName,
		LabelInstance:   id.InstanceName,
		ManagerLabelKey: ManagerLabelValue,
	}
}

// ObjectMeta builds the metadata envelope for a resource generated for the instance.
// Every call returns fresh maps and slices, so callers are free to mutate the result.
func ObjectMeta(id identity.Instance, labels map[string]string) metav1.ObjectMeta {
	return metav1.ObjectMeta{
		Name:            id.InstanceName,
		Namespace:       id.Namespace,
		Labels:          maps.Clone(labels),
		OwnerReferences: id.OwnerReferences(),
	}
}

// PodTemplate wraps spec in a template carrying the same metadata as the outer resource.
// The namespace is left unset since apiserver ignores it on templates.
func PodTemplate(id identity.Instance, labels map[string]string, spec corev1.PodSpec) corev1.PodTemplateSpec {
	meta := ObjectMeta(id, labels)
	meta.Namespace = ""
	return corev1.PodTemplateSpec{ObjectMeta: meta, Spec: spec}
}

// Selector matches the pods of a template built from the same labels.
func Selector(labels map[string]string) *metav1.LabelSelector {
	return &metav1.LabelSelector{MatchLabels: maps.Clone(labels)}
}
