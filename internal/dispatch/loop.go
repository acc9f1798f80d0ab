package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-core/internal/devicetree"
	"github.com/nerrad567/gray-logic-core/internal/script"
	"github.com/nerrad567/gray-logic-core/internal/value"
)

// Logger is the narrow logging surface the loop depends on, satisfied
// by *logging.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Pumper is a non-blocking front-end poll hook (HTTP client poll,
// WebSocket client poll, serial line poll — spec.md §4.9 step 3).
type Pumper interface {
	Pump()
}

// HistorySink receives one value-change record for each device
// configured with "history": true whose value changed since the
// previous tick (spec.md §4.13 expansion). RecordChange is called on
// the loop thread; the SQLite sink inserts synchronously, bounded by
// its own short timeout.
type HistorySink interface {
	RecordChange(deviceID, uid string, v value.Value)
}

// Loop is the single cooperatively scheduled task that owns the
// device tree, the script engine, and the command queue (spec.md §5).
// Nothing outside Run touches devices or scripts.
type Loop struct {
	Queue *Queue
	Tick  time.Duration

	log Logger

	mu           sync.RWMutex
	root         *devicetree.Device
	activeScript *script.Script
	scriptsRun   bool
	lastTick     time.Time
	dispatch     *Dispatcher
	pumpers      []Pumper

	deviceID    string
	history     HistorySink
	lastHistory map[*devicetree.Device]value.Value
	audit       AuditFunc
}

// AuditFunc records one command-queue audit entry (spec.md §2 expansion,
// "command-queue audit trail"). Called on the loop thread immediately
// after the command's response is computed; it must not block.
type AuditFunc func(cmd, resp string)

// SetAuditFunc installs the audit trail callback. A nil func (the
// default) disables audit logging.
func (l *Loop) SetAuditFunc(fn AuditFunc) {
	l.mu.Lock()
	l.audit = fn
	l.mu.Unlock()
}

// New builds a Loop. tick is the coarse device/script tick interval
// (spec.md §4.9 suggests ≈100ms).
func New(log Logger, tick time.Duration) *Loop {
	l := &Loop{Queue: NewQueue(), Tick: tick, log: log, scriptsRun: true, lastHistory: make(map[*devicetree.Device]value.Value)}
	l.dispatch = newDispatcher(l)
	return l
}

// SetDeviceID records the owning deviceId (spec.md §6 topic templates)
// tagged onto every history record this loop writes.
func (l *Loop) SetDeviceID(id string) {
	l.mu.Lock()
	l.deviceID = id
	l.mu.Unlock()
}

// SetTree installs a new device tree, discarding any prior one. No old
// handle survives (spec.md §5 reload semantics) since the script and
// tree are always swapped together by the caller via LoadAll. The
// history baseline is reset too, since the old tree's *Device pointers
// (its keys) no longer exist.
func (l *Loop) SetTree(root *devicetree.Device) {
	l.mu.Lock()
	l.root = root
	l.lastHistory = make(map[*devicetree.Device]value.Value)
	l.mu.Unlock()
}

// SetScript installs a new compiled script, discarding any prior one.
func (l *Loop) SetScript(s *script.Script) {
	l.mu.Lock()
	l.activeScript = s
	l.mu.Unlock()
}

// Tree returns the currently active device tree.
func (l *Loop) Tree() *devicetree.Device {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.root
}

// AddPumper registers a non-blocking front-end to poll each tick.
func (l *Loop) AddPumper(p Pumper) { l.pumpers = append(l.pumpers, p) }

// Dispatcher returns the loop's command dispatcher so the caller can
// wire ReloadFunc/LogTailFunc/GPIOLister callbacks before Run starts.
func (l *Loop) Dispatcher() *Dispatcher { return l.dispatch }

// SetHistorySink installs the sink the tick phase writes value-change
// telemetry through (spec.md §4.13 expansion). A nil sink disables
// history recording entirely.
func (l *Loop) SetHistorySink(s HistorySink) {
	l.mu.Lock()
	l.history = s
	l.mu.Unlock()
}

// Run executes the cooperative loop until ctx is cancelled. Each
// iteration: drain the command queue fully, run the device/script pass
// at most once per Tick, then pump front-ends (spec.md §4.9).
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		didWork := l.drainQueue()

		now := time.Now()
		if now.Sub(l.lastTick) >= l.Tick {
			l.lastTick = now
			l.runDevicePass()
			didWork = true
		}

		for _, p := range l.pumpers {
			p.Pump()
		}

		// The only suspension point is here, between iterations
		// (spec.md §5). A brief sleep when there was nothing to do
		// avoids pegging a core on an idle loop.
		if !didWork {
			time.Sleep(time.Millisecond)
		}
	}
}

func (l *Loop) drainQueue() bool {
	did := false
	for {
		p, ok := l.Queue.popOne()
		if !ok {
			return did
		}
		did = true
		resp := l.dispatch.Handle(p.cmd)
		p.respond(resp)

		l.mu.RLock()
		audit := l.audit
		l.mu.RUnlock()
		if audit != nil {
			audit(p.cmd, resp)
		}
	}
}

func (l *Loop) runDevicePass() {
	l.mu.RLock()
	root := l.root
	s := l.activeScript
	scriptsRun := l.scriptsRun
	sink := l.history
	deviceID := l.deviceID
	l.mu.RUnlock()

	if root != nil {
		devicetree.Walk(root, func(d *devicetree.Device) { d.Loop() })
		if sink != nil {
			l.recordHistory(root, deviceID, sink)
		}
	}
	if scriptsRun && s != nil {
		s.Tick(func(err error) {
			if l.log != nil {
				l.log.Warn("script tick error", "error", err)
			}
		})
	}
}

// recordHistory walks the tree looking for devices flagged with
// "history": true, reads their current value, and writes a record to
// sink whenever it differs from the last value observed for that
// device (spec.md §4.13 expansion). A read error or a sink that panics
// is never allowed to interrupt a tick: a device whose read fails is
// skipped for this tick, and a sink panic is logged and dropped.
func (l *Loop) recordHistory(root *devicetree.Device, deviceID string, sink HistorySink) {
	devicetree.Walk(root, func(d *devicetree.Device) {
		if !d.History {
			return
		}
		v, err := d.ReadValue()
		if err != nil {
			return
		}

		l.mu.Lock()
		last, seen := l.lastHistory[d]
		changed := !seen
		if seen {
			eq, cmpErr := value.Eq(last, v)
			changed = cmpErr != nil || !eq.Truthy()
		}
		if changed {
			l.lastHistory[d] = v
		}
		l.mu.Unlock()

		if !changed {
			return
		}
		func() {
			defer func() {
				if r := recover(); r != nil && l.log != nil {
					l.log.Warn("history sink panic recovered", "uid", d.UID.String(), "panic", r)
				}
			}()
			sink.RecordChange(deviceID, d.UID.String(), v)
		}()
	})
}
