package runtime

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nerrad567/gray-logic-core/internal/devicetree"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestLoadAll_BuildsTreeAndScript(t *testing.T) {
	dir := t.TempDir()
	deviceConfig := filepath.Join(dir, "devices.json")
	scriptDir := filepath.Join(dir, "scripts")
	if err := os.Mkdir(scriptDir, 0750); err != nil {
		t.Fatal(err)
	}

	writeFile(t, deviceConfig, `{
		"deviceId": "core-1",
		"items": [
			{"type": "script_var", "uid": "counter"}
		]
	}`)
	writeFile(t, filepath.Join(scriptDir, "001.rule"), `on 1 > 0 do counter = 1; endon`)

	root, s, err := LoadAll(deviceConfig, scriptDir, &devicetree.BuildContext{})
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if root == nil {
		t.Fatal("expected a non-nil device tree")
	}
	if s == nil {
		t.Fatal("expected a compiled script")
	}
}

func TestLoadAll_NoScriptsIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	deviceConfig := filepath.Join(dir, "devices.json")
	writeFile(t, deviceConfig, `{
		"deviceId": "core-1",
		"items": [
			{"type": "script_var", "uid": "counter"}
		]
	}`)

	root, s, err := LoadAll(deviceConfig, filepath.Join(dir, "missing-scripts"), &devicetree.BuildContext{})
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if root == nil {
		t.Fatal("expected a non-nil device tree")
	}
	if s != nil {
		t.Errorf("expected a nil script when no script files exist, got %+v", s)
	}
}

func TestLoadAll_MissingDeviceConfigIsAnError(t *testing.T) {
	_, _, err := LoadAll("/nonexistent/devices.json", "/nonexistent/scripts", &devicetree.BuildContext{})
	if err == nil {
		t.Fatal("expected an error for a missing device config path")
	}
}
