package loki

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/openshift/loki-manifests/lib/conventions"
)

const (
	HTTPPort   int32 = 3100
	GRPCPort   int32 = 9095
	GossipPort int32 = 7946
)

func servicePort(name string, port int32) corev1.ServicePort {
	return corev1.ServicePort{
		Name:       name,
		Port:       port,
		Protocol:   corev1.ProtocolTCP,
		TargetPort: intstr.FromInt32(port),
	}
}

func containerPorts() []corev1.ContainerPort {
	return []corev1.ContainerPort{
		{Name: "http-metrics", ContainerPort: HTTPPort, Protocol: corev1.ProtocolTCP},
		{Name: "grpc", ContainerPort: GRPCPort, Protocol: corev1.ProtocolTCP},
		{Name: "tcp-gossip", ContainerPort: GossipPort, Protocol: corev1.ProtocolTCP},
	}
}

// ClusterIP is the load balanced service in front of the pods called name.
func ClusterIP(name conventions.Name) corev1.Service {
	return corev1.Service{
		ObjectMeta: conventions.MetaFor(name),
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceTypeClusterIP,
			Selector: conventions.SelectorLabels(name),
			Ports: []corev1.ServicePort{
				servicePort("http-metrics", HTTPPort),
				servicePort("grpc", GRPCPort),
			},
		},
	}
}

func discoveryName(name conventions.Name) conventions.Name {
	return name + "-discovery"
}

// Discovery is the headless service resolving to every pod called name,
// ready or not. It gives stateful members their stable network identity
// and seeds the gossip ring.
func Discovery(name conventions.Name) corev1.Service {
	return corev1.Service{
		ObjectMeta: conventions.MetaFor(discoveryName(name)),
		Spec: corev1.ServiceSpec{
			Type:                     corev1.ServiceTypeClusterIP,
			ClusterIP:                corev1.ClusterIPNone,
			PublishNotReadyAddresses: true,
			Selector:                 conventions.SelectorLabels(name),
			Ports: []corev1.ServicePort{
				servicePort("http-metrics", HTTPPort),
				servicePort("grpclb", GRPCPort),
				servicePort("tcp-gossip", GossipPort),
			},
		},
	}
}
