// Copyright 2026 Chainborn

package binding

import (
	"os"
	"testing"
)

func TestCollectorCustomPrefixKeysAreLoweredAndStripped(t *testing.T) {
	t.Setenv("CHAINBORN_BINDING_TENANT", "tenant-7")
	t.Setenv("CHAINBORN_BINDING_REGION", "us-east")
	t.Setenv("UNRELATED_VAR", "ignored")

	c := NewCollector("")
	data := c.Collect()

	if data["tenant"] != "tenant-7" {
		t.Errorf("tenant = %q", data["tenant"])
	}
	if data["region"] != "us-east" {
		t.Errorf("region = %q", data["region"])
	}
	if _, ok := data["unrelated_var"]; ok {
		t.Error("unrelated var leaked into binding data")
	}
}

func TestCollectorK8sIdentity(t *testing.T) {
	t.Setenv("K8S_NAMESPACE", "prod")
	t.Setenv("KUBERNETES_NAMESPACE", "should-not-win")
	t.Setenv("K8S_POD_NAME", "")
	t.Setenv("KUBERNETES_POD_NAME", "pod-xyz")

	c := NewCollector("")
	data := c.Collect()

	if data["k8s_namespace"] != "prod" {
		t.Errorf("k8s_namespace = %q", data["k8s_namespace"])
	}
	if data["k8s_pod_name"] != "pod-xyz" {
		t.Errorf("k8s_pod_name = %q", data["k8s_pod_name"])
	}
}

func TestCollectorContainerIDFromHostname(t *testing.T) {
	t.Setenv("HOSTNAME", "abcdef012345")

	c := NewCollector("")
	data := c.Collect()

	if data["container_id"] != "abcdef012345" {
		t.Errorf("container_id = %q", data["container_id"])
	}
}

func TestCollectorContainerIDFromCgroup(t *testing.T) {
	t.Setenv("HOSTNAME", "not-hex-like-name")

	dir := t.TempDir()
	path := dir + "/cgroup"
	content := "12:pids:/docker/1234567890abcdef1234567890abcdef1234567890abcdef1234567890abcd\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewCollector("")
	c.cgroupPath = path
	data := c.Collect()

	if data["container_id"] == "" {
		t.Fatal("expected container id parsed from cgroup")
	}
}

func TestCollectorHostname(t *testing.T) {
	c := NewCollector("")
	data := c.Collect()
	if data["hostname"] == "" {
		t.Error("expected a hostname to be collected")
	}
}
