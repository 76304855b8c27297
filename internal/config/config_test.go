package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.yaml")
	contents := `
node_name: node1
pods:
  - pod_name: pod1
    container_ids: ["docker://c1"]
    subjects:
      - paths: ["/etc"]
        events: ["modify"]
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.NodeName != "node1" {
		t.Fatalf("got node name %q", cfg.NodeName)
	}
	if len(cfg.Pods) != 1 || cfg.Pods[0].PodName != "pod1" {
		t.Fatalf("got pods %+v", cfg.Pods)
	}
	if cfg.LogFormat != defaultLogFormat {
		t.Fatalf("expected default log format to be applied, got %q", cfg.LogFormat)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	contents := `{"node_name":"node1","pods":[{"pod_name":"pod1","container_ids":["c1"]}]}`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.NodeName != "node1" {
		t.Fatalf("got node name %q", cfg.NodeName)
	}
	if len(cfg.Pods[0].Subjects) != 0 {
		t.Fatalf("expected no subjects when manifest omits them")
	}
}

func TestValidateRejectsMissingNodeName(t *testing.T) {
	cfg := Config{Pods: []PodConfig{{PodName: "p", ContainerIDs: []string{"c"}}}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for missing node_name")
	}
}

func TestValidateRejectsDuplicatePodName(t *testing.T) {
	cfg := Config{
		NodeName: "n",
		Pods: []PodConfig{
			{PodName: "p", ContainerIDs: []string{"c1"}},
			{PodName: "p", ContainerIDs: []string{"c2"}},
		},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for duplicate pod_name")
	}
}

func TestApplyDefaultsFillsMissingEvents(t *testing.T) {
	cfg := Config{
		NodeName: "n",
		Pods:     []PodConfig{{PodName: "p", ContainerIDs: []string{"c"}, Subjects: []SubjectConfig{{Paths: []string{"/etc"}}}}},
	}
	ApplyDefaults(&cfg)
	if len(cfg.Pods[0].Subjects[0].Events) != 1 || cfg.Pods[0].Subjects[0].Events[0] != "all" {
		t.Fatalf("got events %v", cfg.Pods[0].Subjects[0].Events)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(envNodeNameOverride, "from-env")
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.yaml")
	os.WriteFile(path, []byte("node_name: from-file\npods: []\n"), 0o600)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.NodeName != "from-env" {
		t.Fatalf("expected env override, got %q", cfg.NodeName)
	}
}
