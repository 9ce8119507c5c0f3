package version

import (
	"testing"
)

func TestVersion(t *testing.T) {
	if Version.String() != "0.1.0" {
		t.Fatalf("unexpected version %s", Version)
	}
	if String != "loki-manifests v0.1.0" {
		t.Fatalf("unexpected version string %q", String)
	}
}
