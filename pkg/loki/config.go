package loki

import (
	"fmt"

	"gopkg.in/yaml.v3"
	corev1 "k8s.io/api/core/v1"

	"github.com/openshift/loki-manifests/lib/conventions"
)

const (
	// ConfigName names the config map holding the runtime configuration.
	ConfigName conventions.Name = "loki"
	// ConfigKey is the config map entry holding the runtime configuration.
	ConfigKey = "config.yaml"
)

// Config is the subset of the Loki runtime configuration the generated
// topology sets.
type Config struct {
	AuthEnabled  bool             `yaml:"auth_enabled"`
	Server       ServerConfig     `yaml:"server"`
	Common       CommonConfig     `yaml:"common"`
	Memberlist   MemberlistConfig `yaml:"memberlist"`
	SchemaConfig SchemaConfig     `yaml:"schema_config"`
}

type ServerConfig struct {
	HTTPListenPort int32 `yaml:"http_listen_port"`
	GRPCListenPort int32 `yaml:"grpc_listen_port"`
}

type CommonConfig struct {
	PathPrefix        string        `yaml:"path_prefix"`
	Storage           StorageConfig `yaml:"storage"`
	ReplicationFactor int32         `yaml:"replication_factor"`
	Ring              RingConfig    `yaml:"ring"`
}

type StorageConfig struct {
	Filesystem FilesystemConfig `yaml:"filesystem"`
}

type FilesystemConfig struct {
	ChunksDirectory string `yaml:"chunks_directory"`
	RulesDirectory  string `yaml:"rules_directory"`
}

type RingConfig struct {
	KVStore KVStoreConfig `yaml:"kvstore"`
}

type KVStoreConfig struct {
	Store string `yaml:"store"`
}

type MemberlistConfig struct {
	JoinMembers []string `yaml:"join_members"`
}

type SchemaConfig struct {
	Configs []PeriodConfig `yaml:"configs"`
}

type PeriodConfig struct {
	From        string      `yaml:"from"`
	Store       string      `yaml:"store"`
	ObjectStore string      `yaml:"object_store"`
	Schema      string      `yaml:"schema"`
	Index       IndexConfig `yaml:"index"`
}

type IndexConfig struct {
	Prefix string `yaml:"prefix"`
	Period string `yaml:"period"`
}

// DataDir is where the write path keeps its persistent state.
const DataDir = "/var/loki"

// RuntimeConfig returns the runtime configuration for s. Every member
// gossips through the write discovery service.
func (s SSD) RuntimeConfig() Config {
	replication := s.WriteReplicas
	if replication > 3 {
		replication = 3
	}
	return Config{
		Server: ServerConfig{
			HTTPListenPort: HTTPPort,
			GRPCListenPort: GRPCPort,
		},
		Common: CommonConfig{
			PathPrefix: DataDir,
			Storage: StorageConfig{Filesystem: FilesystemConfig{
				ChunksDirectory: DataDir + "/chunks",
				RulesDirectory:  DataDir + "/rules",
			}},
			ReplicationFactor: replication,
			Ring:              RingConfig{KVStore: KVStoreConfig{Store: "memberlist"}},
		},
		Memberlist: MemberlistConfig{
			JoinMembers: []string{fmt.Sprintf("%s:%d", discoveryName(WriteName), GossipPort)},
		},
		SchemaConfig: SchemaConfig{Configs: []PeriodConfig{{
			From:        "2024-01-01",
			Store:       "tsdb",
			ObjectStore: "filesystem",
			Schema:      "v13",
			Index:       IndexConfig{Prefix: "index_", Period: "24h"},
		}}},
	}
}

// ConfigMap renders the runtime configuration of s into a config map.
func (s SSD) ConfigMap() (corev1.ConfigMap, error) {
	raw, err := yaml.Marshal(s.RuntimeConfig())
	if err != nil {
		return corev1.ConfigMap{}, err
	}
	return corev1.ConfigMap{
		ObjectMeta: conventions.MetaFor(ConfigName),
		Data:       map[string]string{ConfigKey: string(raw)},
	}, nil
}
