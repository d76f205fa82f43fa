package schematic

import (
	corev1 "k8s.io/api/core/v1"
)

// ToPodSpec builds a pod spec using the cluster's default restart policy.
func (c *Component) ToPodSpec(params ParamMap) corev1.PodSpec {
	return c.ToPodSpecWithPolicy(params, "")
}

// ToPodSpecWithPolicy builds a pod spec for the component's containers.
// The output only depends on the component and params, so repeated calls are equal.
func (c *Component) ToPodSpecWithPolicy(params ParamMap, policy corev1.RestartPolicy) corev1.PodSpec {
	spec := corev1.PodSpec{RestartPolicy: policy}

	seenVolumes := map[string]struct{}{}
	for _, ctr := range c.Containers {
		spec.Containers = append(spec.Containers, ctr.toContainer(params))

		for _, vm := range ctr.VolumeMounts {
			if _, ok := seenVolumes[vm.Name]; ok {
				continue
			}
			seenVolumes[vm.Name] = struct{}{}
			spec.Volumes = append(spec.Volumes, corev1.Volume{
				Name:         vm.Name,
				VolumeSource: corev1.VolumeSource{EmptyDir: &corev1.EmptyDirVolumeSource{}},
			})
		}
	}

	if c.OSType != "" || c.Arch != "" {
		spec.NodeSelector = map[string]string{}
		if c.OSType != "" {
			spec.NodeSelector[corev1.LabelOSStable] = c.OSType
		}
		if c.Arch != "" {
			spec.NodeSelector[corev1.LabelArchStable] = c.Arch
		}
	}

	return spec
}

func (c *Container) toContainer(params ParamMap) corev1.Container {
	ctr := corev1.Container{
		Name:            c.Name,
		Image:           c.Image,
		ImagePullPolicy: c.ImagePullPolicy,
		Command:         append([]string(nil), c.Command...),
		Args:            append([]string(nil), c.Args...),
	}

	for _, env := range c.Env {
		val := env.Value
		if env.FromParam != "" {
			if p, ok := params.String(env.FromParam); ok {
				val = p
			}
		}
		ctr.Env = append(ctr.Env, corev1.EnvVar{Name: env.Name, Value: val})
	}

	for _, p := range c.Ports {
		proto := p.Protocol
		if proto == "" {
			proto = corev1.ProtocolTCP
		}
		ctr.Ports = append(ctr.Ports, corev1.ContainerPort{
			Name:          p.Name,
			ContainerPort: p.ContainerPort,
			Protocol:      proto,
		})
	}

	// Validate has already rejected unparseable quantities
	if list, _ := c.Resources.list(); list != nil {
		ctr.Resources = corev1.ResourceRequirements{
			Requests: list,
			Limits:   list.DeepCopy(),
		}
	}

	for _, vm := range c.VolumeMounts {
		ctr.VolumeMounts = append(ctr.VolumeMounts, corev1.VolumeMount{
			Name:      vm.Name,
			MountPath: vm.MountPath,
			ReadOnly:  vm.ReadOnly,
		})
	}

	return ctr
}
