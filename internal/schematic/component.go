package schematic

import (
	"errors"
	"fmt"
	"os"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/util/validation"
	"sigs.k8s.io/yaml"
)

// Component describes a single process to run, with every parameter already resolved.
//
// It is the input to workload synthesis and is treated as immutable once constructed.
type Component struct {
	// WorkloadType selects the workload variant, e.g. "Task" or "core.oam.dev/v1alpha1.Server".
	WorkloadType string `json:"workloadType"`

	// OSType and Arch are copied into the pod's node selector when set.
	OSType string `json:"osType,omitempty"`
	Arch   string `json:"arch,omitempty"`

	// Replicas is nil when the definition doesn't declare a replica count.
	Replicas *int32 `json:"replicas,omitempty"`

	Containers       []Container `json:"containers"`
	WorkloadSettings []Setting   `json:"workloadSettings,omitempty"`
}

type Container struct {
	Name            string            `json:"name"`
	Image           string            `json:"image"`
	ImagePullPolicy corev1.PullPolicy `json:"imagePullPolicy,omitempty"`
	Command         []string          `json:"cmd,omitempty"`
	Args            []string          `json:"args,omitempty"`
	Env             []EnvVar          `json:"env,omitempty"`
	Ports           []Port            `json:"ports,omitempty"`
	Resources       Resources         `json:"resources,omitempty"`
	VolumeMounts    []VolumeMount     `json:"volumeMounts,omitempty"`
}

// EnvVar is a literal environment variable, optionally taken from a named parameter.
type EnvVar struct {
	Name      string `json:"name"`
	Value     string `json:"value,omitempty"`
	FromParam string `json:"fromParam,omitempty"`
}

type Port struct {
	Name          string          `json:"name"`
	ContainerPort int32           `json:"containerPort"`
	Protocol      corev1.Protocol `json:"protocol,omitempty"`
}

// Resources holds quantity strings that are applied as both requests and limits.
type Resources struct {
	CPU    string `json:"cpu,omitempty"`
	Memory string `json:"memory,omitempty"`
}

// VolumeMount is backed by an emptyDir volume of the same name.
type VolumeMount struct {
	Name      string `json:"name"`
	MountPath string `json:"mountPath"`
	ReadOnly  bool   `json:"readOnly,omitempty"`
}

type Setting struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Parse decodes a component from YAML or JSON.
func Parse(data []byte) (*Component, error) {
	comp := &Component{}
	if err := yaml.UnmarshalStrict(data, comp); err != nil {
		return nil, fmt.Errorf("decoding component: %w", err)
	}
	return comp, nil
}

// Load reads and parses a component definition file.
func Load(path string) (*Component, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading component definition: %w", err)
	}
	return Parse(data)
}

// Validate returns an error when the component cannot be synthesized.
func (c *Component) Validate() error {
	if c.WorkloadType == "" {
		return errors.New("workload type is required")
	}
	if len(c.Containers) == 0 {
		return errors.New("at least one container is required")
	}
	if c.Replicas != nil && *c.Replicas < 0 {
		return fmt.Errorf("replicas must not be negative, got %d", *c.Replicas)
	}
	names := map[string]struct{}{}
	for i, ctr := range c.Containers {
		if ctr.Name == "" {
			return fmt.Errorf("container %d: name is required", i)
		}
		if _, dup := names[ctr.Name]; dup {
			return fmt.Errorf("container %q: duplicate name", ctr.Name)
		}
		names[ctr.Name] = struct{}{}
		if ctr.Image == "" {
			return fmt.Errorf("container %q: image is required", ctr.Name)
		}
		if _, err := ctr.Resources.list(); err != nil {
			return fmt.Errorf("container %q: %w", ctr.Name, err)
		}
	}
	return c.validatePorts()
}

// validatePorts rejects ports that can't be exposed together by one Service.
func (c *Component) validatePorts() error {
	total := 0
	for _, ctr := range c.Containers {
		total += len(ctr.Ports)
	}

	type portKey struct {
		port     int32
		protocol corev1.Protocol
	}
	numbers := map[portKey]struct{}{}
	names := map[string]struct{}{}
	for _, ctr := range c.Containers {
		for _, p := range ctr.Ports {
			if errs := validation.IsValidPortNum(int(p.ContainerPort)); len(errs) > 0 {
				return fmt.Errorf("container %q: invalid port %d: %s", ctr.Name, p.ContainerPort, strings.Join(errs, ", "))
			}
			proto := p.Protocol
			if proto == "" {
				proto = corev1.ProtocolTCP
			}
			key := portKey{port: p.ContainerPort, protocol: proto}
			if _, dup := numbers[key]; dup {
				return fmt.Errorf("container %q: duplicate port %d/%s", ctr.Name, p.ContainerPort, proto)
			}
			numbers[key] = struct{}{}

			if p.Name == "" {
				if total > 1 {
					return fmt.Errorf("container %q: port %d must be named when more than one port is declared", ctr.Name, p.ContainerPort)
				}
				continue
			}
			if errs := validation.IsValidPortName(p.Name); len(errs) > 0 {
				return fmt.Errorf("container %q: invalid port name %q: %s", ctr.Name, p.Name, strings.Join(errs, ", "))
			}
			if _, dup := names[p.Name]; dup {
				return fmt.Errorf("container %q: duplicate port name %q", ctr.Name, p.Name)
			}
			names[p.Name] = struct{}{}
		}
	}
	return nil
}

// Setting returns the value of the named workload setting.
func (c *Component) Setting(name string) (any, bool) {
	for _, s := range c.WorkloadSettings {
		if s.Name == name {
			return s.Value, true
		}
	}
	return nil, false
}

// ServicePorts returns every declared container port in container order.
func (c *Component) ServicePorts() []corev1.ServicePort {
	var ports []corev1.ServicePort
	for _, ctr := range c.Containers {
		for _, p := range ctr.Ports {
			proto := p.Protocol
			if proto == "" {
				proto = corev1.ProtocolTCP
			}
			ports = append(ports, corev1.ServicePort{
				Name:     p.Name,
				Port:     p.ContainerPort,
				Protocol: proto,
			})
		}
	}
	return ports
}

func (r Resources) list() (corev1.ResourceList, error) {
	if r.CPU == "" && r.Memory == "" {
		return nil, nil
	}
	list := corev1.ResourceList{}
	if r.CPU != "" {
		q, err := resource.ParseQuantity(r.CPU)
		if err != nil {
			return nil, fmt.Errorf("parsing cpu quantity: %w", err)
		}
		list[corev1.ResourceCPU] = q
	}
	if r.Memory != "" {
		q, err := resource.ParseQuantity(r.Memory)
		if err != nil {
			return nil, fmt.Errorf("parsing memory quantity: %w", err)
		}
		list[corev1.ResourceMemory] = q
	}
	return list, nil
}
