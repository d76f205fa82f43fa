package k8s

import (
	"fmt"
	"os"

	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	ctrl "sigs.k8s.io/controller-runtime"
)

// GetRESTConfig reads a kubeconfig file.
// The config from the environment (in-cluster, $KUBECONFIG, ~/.kube/config) is used when filename is empty.
func GetRESTConfig(filename string) (*rest.Config, error) {
	if filename == "" {
		cfg, err := ctrl.GetConfig()
		if err != nil {
			return nil, fmt.Errorf("loading kubeconfig from environment: %w", err)
		}
		return cfg, nil
	}

	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading kubeconfig file: %w", err)
	}
	cfg, err := clientcmd.RESTConfigFromKubeConfig(b)
	if err != nil {
		return nil, fmt.Errorf("parsing kubeconfig file: %w", err)
	}
	return cfg, nil
}
