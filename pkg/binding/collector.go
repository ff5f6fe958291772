// Copyright 2026 Chainborn
//
// Binding Collector — observes runtime identity (host name, container id,
// orchestrator metadata, custom prefix-scoped variables) and emits a
// mapping the Binding Comparator checks against a proof's public outputs.
// Grounded on the environment-driven settings gathering style of
// pkg/config/config.go in the ancestor codebase: every source is read
// independently and a missing or malformed source is simply omitted, never
// fatal.

package binding

import (
	"bufio"
	"log"
	"os"
	"regexp"
	"strings"
)

const defaultEnvPrefix = "CHAINBORN_BINDING_"

var (
	hexIDPattern       = regexp.MustCompile(`^[0-9a-f]{12,64}$`)
	cgroupDockerLong   = regexp.MustCompile(`/docker/([0-9a-f]{12,64})(?:$|/)`)
	cgroupDockerScope  = regexp.MustCompile(`docker-([0-9a-f]{12,64})\.scope`)
	cgroupKubepodsPod  = regexp.MustCompile(`/kubepods[^\n]*?/pod[^/]*/([0-9a-f]{12,64})(?:$|/)`)
)

// Collector gathers binding data from the runtime environment.
type Collector struct {
	envPrefix  string
	cgroupPath string
	logger     *log.Logger
}

// NewCollector constructs a Collector. An empty envPrefix falls back to
// CHAINBORN_BINDING_.
func NewCollector(envPrefix string) *Collector {
	if envPrefix == "" {
		envPrefix = defaultEnvPrefix
	}
	return &Collector{
		envPrefix:  envPrefix,
		cgroupPath: "/proc/self/cgroup",
		logger:     log.New(log.Writer(), "[BindingCollector] ", log.LstdFlags),
	}
}

// Collect gathers all available binding data. Individual source failures
// are logged and skipped; Collect itself never fails.
func (c *Collector) Collect() map[string]string {
	data := make(map[string]string)

	if host := c.hostname(); host != "" {
		data["hostname"] = host
	}
	if id := c.containerID(); id != "" {
		data["container_id"] = id
	}
	if ns := firstNonEmptyEnv("K8S_NAMESPACE", "KUBERNETES_NAMESPACE"); ns != "" {
		data["k8s_namespace"] = ns
	}
	if pod := firstNonEmptyEnv("K8S_POD_NAME", "KUBERNETES_POD_NAME"); pod != "" {
		data["k8s_pod_name"] = pod
	}

	for _, key := range c.customBindingKeys() {
		stripped := key
		if len(key) >= len(c.envPrefix) && strings.EqualFold(key[:len(c.envPrefix)], c.envPrefix) {
			stripped = key[len(c.envPrefix):]
		}
		stripped = strings.ToLower(stripped)
		value := strings.TrimSpace(os.Getenv(key))
		if value == "" {
			continue
		}
		data[stripped] = value
	}

	return data
}

func (c *Collector) hostname() string {
	name, err := os.Hostname()
	if err != nil {
		c.logger.Printf("hostname unavailable: %v", err)
		return ""
	}
	return strings.TrimSpace(name)
}

// containerID resolves a container identifier opportunistically from
// HOSTNAME, falling back to /proc/self/cgroup.
func (c *Collector) containerID() string {
	if h := strings.ToLower(strings.TrimSpace(os.Getenv("HOSTNAME"))); hexIDPattern.MatchString(h) {
		return h
	}

	f, err := os.Open(c.cgroupPath)
	if err != nil {
		c.logger.Printf("cgroup file unavailable: %v", err)
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.ToLower(scanner.Text())
		if m := cgroupDockerScope.FindStringSubmatch(line); m != nil {
			return m[1]
		}
		if m := cgroupKubepodsPod.FindStringSubmatch(line); m != nil {
			return m[1]
		}
		if m := cgroupDockerLong.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	return ""
}

func (c *Collector) customBindingKeys() []string {
	upperPrefix := strings.ToUpper(c.envPrefix)
	var keys []string
	for _, kv := range os.Environ() {
		eq := strings.IndexByte(kv, '=')
		if eq < 0 {
			continue
		}
		key := kv[:eq]
		if strings.HasPrefix(strings.ToUpper(key), upperPrefix) {
			keys = append(keys, key)
		}
	}
	return keys
}

func firstNonEmptyEnv(names ...string) string {
	for _, n := range names {
		if v := strings.TrimSpace(os.Getenv(n)); v != "" {
			return v
		}
	}
	return ""
}
