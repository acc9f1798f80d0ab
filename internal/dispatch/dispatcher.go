package dispatch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nerrad567/gray-logic-core/internal/devicetree"
)

// ReloadFunc loads a fresh device tree and script set from the
// persisted configuration/script prefix and installs them on the
// loop, replacing the prior tree and every handle bound to it
// (spec.md §5, §6 "persisted state").
type ReloadFunc func() error

// LogTailFunc returns a short tail of recent log entries for the
// `printlog` command.
type LogTailFunc func() string

// GPIOLister returns the GPIO pins currently available for allocation.
type GPIOLister func() []string

// Dispatcher maps the single-verb command interface (spec.md §6) onto
// loop state. Every handler runs on the loop thread from drainQueue,
// so it may touch devices and scripts directly.
type Dispatcher struct {
	loop *Loop

	Reload    ReloadFunc
	ReloadScr ReloadFunc
	LogTail   LogTailFunc
	ListGPIOs GPIOLister
}

func newDispatcher(l *Loop) *Dispatcher {
	return &Dispatcher{loop: l}
}

// Handle executes one command verb (spec.md §6: "a single string
// `verb[/arg…]`") and returns its UTF-8 response. Handle never panics
// on an unrecognised verb or a nil callback — it returns a descriptive
// error string instead, matching "errors inside the command queue
// consumer are captured into the response string" (spec.md §7).
func (d *Dispatcher) Handle(cmd string) string {
	verb, _, _ := strings.Cut(cmd, "/")

	switch verb {
	case "printDevices":
		return d.printDevices()
	case "getAvailableGPIOs":
		return d.getAvailableGPIOs()
	case "printlog":
		return d.printLog()
	case "reloadcfg":
		return d.runReload(d.Reload, "config reload")
	case "scripts":
		return d.scriptsCommand(cmd)
	default:
		return fmt.Sprintf("error: unsupported command %q", cmd)
	}
}

func (d *Dispatcher) scriptsCommand(cmd string) string {
	_, arg, _ := strings.Cut(cmd, "/")
	switch arg {
	case "reload":
		return d.runReload(d.ReloadScr, "script reload")
	case "stop":
		d.loop.mu.Lock()
		d.loop.scriptsRun = false
		d.loop.mu.Unlock()
		return "ok: scripts stopped"
	case "start":
		d.loop.mu.Lock()
		d.loop.scriptsRun = true
		d.loop.mu.Unlock()
		return "ok: scripts started"
	default:
		return fmt.Sprintf("error: unsupported command %q", cmd)
	}
}

func (d *Dispatcher) runReload(fn ReloadFunc, label string) string {
	if fn == nil {
		return fmt.Sprintf("error: %s not configured", label)
	}
	if err := fn(); err != nil {
		return fmt.Sprintf("error: %s failed: %v", label, err)
	}
	return "ok: " + label
}

func (d *Dispatcher) printDevices() string {
	root := d.loop.Tree()
	if root == nil {
		return "error: no device tree loaded"
	}
	var b strings.Builder
	count := 0
	devicetree.Walk(root, func(dev *devicetree.Device) {
		if count > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(dev.ToString())
		count++
	})
	b.WriteString("\n")
	b.WriteString(strconv.Itoa(count))
	b.WriteString(" devices")
	return b.String()
}

func (d *Dispatcher) getAvailableGPIOs() string {
	if d.ListGPIOs == nil {
		return "error: getAvailableGPIOs not configured"
	}
	return strings.Join(d.ListGPIOs(), ",")
}

func (d *Dispatcher) printLog() string {
	if d.LogTail == nil {
		return "error: printlog not configured"
	}
	return d.LogTail()
}
