package conventions

import (
	"path"

	corev1 "k8s.io/api/core/v1"
)

// VolumeRoot is the directory volumes are mounted under.
const VolumeRoot = "/etc/volumes"

// MountPath is where the volume named name is mounted.
func MountPath(name string) string {
	return path.Join(VolumeRoot, name)
}

// VolumeMount mounts v at MountPath(v.Name).
func VolumeMount(v corev1.Volume) corev1.VolumeMount {
	return corev1.VolumeMount{
		Name:      v.Name,
		MountPath: MountPath(v.Name),
	}
}

// MountVolumes mounts each of vols into c. Existing mounts of other volumes
// are kept; mounts of the same name are replaced.
func MountVolumes(vols []corev1.Volume, c corev1.Container) corev1.Container {
	if len(vols) == 0 {
		return c
	}
	replaced := make(map[string]bool, len(vols))
	for _, v := range vols {
		replaced[v.Name] = true
	}
	mounts, _ := ContainerVolumeMounts.Get(c)
	out := make([]corev1.VolumeMount, 0, len(mounts)+len(vols))
	for _, m := range mounts {
		if !replaced[m.Name] {
			out = append(out, m)
		}
	}
	for _, v := range vols {
		out = append(out, VolumeMount(v))
	}
	return ContainerVolumeMounts.With(c, out)
}

// ConfigMapVolume exposes the config map called name as a volume of the
// same name.
func ConfigMapVolume(name string) corev1.Volume {
	return corev1.Volume{
		Name: name,
		VolumeSource: corev1.VolumeSource{
			ConfigMap: &corev1.ConfigMapVolumeSource{
				LocalObjectReference: corev1.LocalObjectReference{Name: name},
			},
		},
	}
}

// ConfigMapReferences lists the config maps referenced by vols, directly or
// through projected sources, in order of first appearance.
func ConfigMapReferences(vols []corev1.Volume) []string {
	var out []string
	seen := map[string]bool{}
	add := func(name string) {
		if len(name) == 0 || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}
	for _, v := range vols {
		if v.ConfigMap != nil {
			add(v.ConfigMap.Name)
		}
		if v.Projected != nil {
			for _, src := range v.Projected.Sources {
				if src.ConfigMap != nil {
					add(src.ConfigMap.Name)
				}
			}
		}
	}
	return out
}
