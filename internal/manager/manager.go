package manager

import (
	"fmt"

	"github.com/go-logr/logr"
	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/discovery/cached/memory"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/restmapper"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/Azure/instigator/internal/apply"
)

// NewScheme registers every type produced by workload synthesis.
func NewScheme() (*runtime.Scheme, error) {
	scheme := runtime.NewScheme()
	err := corev1.SchemeBuilder.AddToScheme(scheme)
	if err != nil {
		return nil, err
	}
	err = appsv1.SchemeBuilder.AddToScheme(scheme)
	if err != nil {
		return nil, err
	}
	err = batchv1.SchemeBuilder.AddToScheme(scheme)
	if err != nil {
		return nil, err
	}
	return scheme, nil
}

// New constructs the apply client described by opts.
func New(logger logr.Logger, opts *Options) (apply.Client, error) {
	if opts.Rest == nil {
		return nil, fmt.Errorf("rest config is required")
	}
	if opts.qps != 0 {
		opts.Rest.QPS = float32(opts.qps)
	}
	if opts.burst != 0 {
		opts.Rest.Burst = opts.burst
	}
	log.SetLogger(logger)

	scheme, err := NewScheme()
	if err != nil {
		return nil, err
	}

	if !opts.Raw {
		cli, err := client.New(opts.Rest, client.Options{Scheme: scheme})
		if err != nil {
			return nil, fmt.Errorf("constructing client: %w", err)
		}
		logger.V(1).Info("using typed apply client")
		return apply.NewTyped(cli), nil
	}

	dyn, err := dynamic.NewForConfig(opts.Rest)
	if err != nil {
		return nil, fmt.Errorf("constructing dynamic client: %w", err)
	}

	var mapper meta.RESTMapper
	if opts.DiscoveryMapping {
		mapper, err = newDiscoveryMapper(opts.Rest)
		if err != nil {
			return nil, err
		}
	}
	logger.V(1).Info("using raw apply client", "discoveryMapping", opts.DiscoveryMapping)
	return apply.NewRaw(dyn, mapper, scheme), nil
}

func newDiscoveryMapper(cfg *rest.Config) (meta.RESTMapper, error) {
	dc, err := discovery.NewDiscoveryClientForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("constructing discovery client: %w", err)
	}
	return restmapper.NewDeferredDiscoveryRESTMapper(memory.NewMemCacheClient(dc)), nil
}
