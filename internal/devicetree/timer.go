package devicetree

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-core/internal/opresult"
	"github.com/nerrad567/gray-logic-core/internal/path"
	"github.com/nerrad567/gray-logic-core/internal/value"
)

func init() {
	Register("timer", TypeEntry{Verify: verifyTimer, Create: createTimer})
}

type timerSpec struct {
	IntervalMS uint32 `json:"intervalMs"`
	Topic      string `json:"topic"`
}

func verifyTimer(raw json.RawMessage) error {
	var s timerSpec
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}
	if s.IntervalMS == 0 {
		return fmt.Errorf("%w: \"intervalMs\"", opresult.ErrMissingKey)
	}
	return nil
}

// createTimer builds a device whose loop hook fires exec on a fixed
// wall-clock interval — the script engine's `on timer:t do … endon`
// observes the resulting exec count through the value_change-style
// counter exposed by read. A non-empty "topic" turns on an MQTT publish
// of the fire count on every exec; it goes to the device's own
// dalhal/<deviceId>/<uid>/state topic, and the "topic" string itself is
// not used as the destination. Unlike the source's polled HAL timers,
// interval gating is driven by the dispatch loop's own tick clock
// rather than an independent hardware alarm (spec.md §4.9).
func createTimer(uid path.Identifier, raw json.RawMessage, ctx *BuildContext) (*Device, error) {
	var spec timerSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, err
	}
	interval := time.Duration(spec.IntervalMS) * time.Millisecond

	var fireCount uint64
	var last time.Time

	d := &Device{UID: uid, TypeName: "timer", Caps: CapRead | CapExec}
	read := func() (value.Value, error) { return value.Uint32(uint32(fireCount)), nil }
	exec := func() error {
		fireCount++
		if spec.Topic != "" && ctx.MQTT != nil {
			_ = ctx.MQTT.Publish(mqtt.Topics{}.DeviceState(ctx.DeviceID, uid.String()), []byte(fmt.Sprintf("%d", fireCount)), false)
		}
		return nil
	}
	d.Functions = map[string]FuncBinding{"": {Read: read, Exec: exec}}
	d.LoopFn = func() {
		now := time.Now()
		if last.IsZero() {
			last = now
			return
		}
		if now.Sub(last) >= interval {
			last = now
			_ = exec()
		}
	}
	d.ToStringFn = func() string {
		return fmt.Sprintf("uid=%q,type=%q,intervalMs=%d,fires=%d", uid.String(), "timer", spec.IntervalMS, fireCount)
	}
	return d, nil
}
