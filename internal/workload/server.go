package workload

import (
	"context"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/Azure/instigator/internal/synthesis"
)

// DefaultReplicas is used by long-running workloads that don't declare a replica count.
const DefaultReplicas int32 = 1

// Server is a long-running process, implemented as a Deployment.
//
// It covers every daemon-style kind:
//   - exposed servers get a ClusterIP Service for their declared ports, workers never do
//   - singletons are pinned to one replica and replaced (not rolled) on update
type Server struct {
	base
	exposed   bool
	singleton bool
}

func (s *Server) Synthesize() []client.Object {
	objs := []client.Object{s.ToDeployment()}
	if svc := s.ToService(); svc != nil {
		objs = append(objs, svc)
	}
	return objs
}

// ToDeployment builds the Deployment for the server.
func (s *Server) ToDeployment() *appsv1.Deployment {
	labels := s.labels()

	// Zero is a valid declared value: the deployment just won't run any pods
	replicas := s.replicas(DefaultReplicas)
	strategy := appsv1.DeploymentStrategy{Type: appsv1.RollingUpdateDeploymentStrategyType}
	if s.singleton {
		replicas = 1
		strategy = appsv1.DeploymentStrategy{Type: appsv1.RecreateDeploymentStrategyType}
	}

	return &appsv1.Deployment{
		TypeMeta:   metaTypeFor(appsv1.SchemeGroupVersion.WithKind("Deployment")),
		ObjectMeta: synthesis.ObjectMeta(s.id, labels),
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To(replicas),
			Selector: synthesis.Selector(labels),
			Strategy: strategy,
			Template: synthesis.PodTemplate(s.id, labels, s.def.ToPodSpecWithPolicy(s.params, corev1.RestartPolicyAlways)),
		},
	}
}

// ToService builds the Service fronting the server's pods.
// It returns nil for workers and for servers that don't declare any ports.
func (s *Server) ToService() *corev1.Service {
	if !s.exposed {
		return nil
	}
	ports := s.def.ServicePorts()
	if len(ports) == 0 {
		return nil
	}
	for i := range ports {
		ports[i].TargetPort = intstr.FromInt32(ports[i].Port)
	}

	labels := s.labels()
	return &corev1.Service{
		TypeMeta:   metaTypeFor(corev1.SchemeGroupVersion.WithKind("Service")),
		ObjectMeta: synthesis.ObjectMeta(s.id, labels),
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceTypeClusterIP,
			Selector: labels,
			Ports:    ports,
		},
	}
}

func (s *Server) Apply(ctx context.Context) error {
	return s.apply(ctx, s.Synthesize(), nil)
}
