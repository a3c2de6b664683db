package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestVersion_Human_ShowsVersionInfo(t *testing.T) {
	defer testEnv(t)()

	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version command should not error: %v", err)
	}

	// Without ldflags the dev placeholder is used.
	if !strings.Contains(out, "rehearse dev") {
		t.Errorf("dev build should show 'rehearse dev', got: %s", out)
	}
	for _, field := range []string{"commit:", "built:", "go:", "os:"} {
		if !strings.Contains(out, field) {
			t.Errorf("output should contain %q", field)
		}
	}
}

func TestVersion_JSON_ReturnsValidJSON(t *testing.T) {
	defer testEnv(t)()

	out, err := execute(t, "version", "--json")
	if err != nil {
		t.Fatalf("version --json should not error: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output should be valid JSON: %v", err)
	}

	for _, field := range []string{"version", "commit", "date", "go", "os", "arch"} {
		if _, ok := result[field]; !ok {
			t.Errorf("JSON should have %q field", field)
		}
	}
	if result["version"] != "dev" {
		t.Errorf("dev build JSON should have version='dev', got: %v", result["version"])
	}
}
