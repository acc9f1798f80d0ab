package runtime

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nerrad567/gray-logic-core/internal/devicetree"
	"github.com/nerrad567/gray-logic-core/internal/script"
)

// LoadAll reads the device-configuration JSON at deviceConfigPath and
// every script file in scriptDir, builds a fresh device tree, runs each
// device's one-time Begin hook, and compiles the combined script source
// against that tree (spec.md §5, §6 "persisted state"). The tree and
// script are always built and swapped together so no handle from a
// prior generation survives a reload.
func LoadAll(deviceConfigPath, scriptDir string, ctx *devicetree.BuildContext) (*devicetree.Device, *script.Script, error) {
	data, err := os.ReadFile(deviceConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading device configuration: %w", err)
	}

	root, err := devicetree.LoadTree(data, ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading device tree: %w", err)
	}
	devicetree.Walk(root, func(d *devicetree.Device) { d.Begin() })

	src, err := loadScripts(scriptDir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading scripts: %w", err)
	}

	var s *script.Script
	if strings.TrimSpace(src) != "" {
		s, err = script.Load(root, src)
		if err != nil {
			return nil, nil, fmt.Errorf("compiling script: %w", err)
		}
	}

	return root, s, nil
}

// loadScripts concatenates every regular file in dir, sorted by name,
// into one script source blob. A missing or empty directory yields an
// empty script, which LoadAll treats as "no script configured" rather
// than an error.
func loadScripts(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		body, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return "", err
		}
		b.Write(body)
		b.WriteByte('\n')
	}
	return b.String(), nil
}
