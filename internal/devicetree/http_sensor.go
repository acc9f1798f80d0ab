package devicetree

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nerrad567/gray-logic-core/internal/opresult"
	"github.com/nerrad567/gray-logic-core/internal/path"
	"github.com/nerrad567/gray-logic-core/internal/value"
)

func init() {
	Register("http_sensor", TypeEntry{Verify: verifyHTTPSensor, Create: createHTTPSensor})
}

type httpSensorSpec struct {
	URL        string `json:"url"`
	PollMS     uint32 `json:"pollMs"`
}

func verifyHTTPSensor(raw json.RawMessage) error {
	var s httpSensorSpec
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}
	if s.URL == "" {
		return fmt.Errorf("%w: \"url\"", opresult.ErrMissingKey)
	}
	return nil
}

// createHTTPSensor builds a device that polls a URL on its loop hook
// and caches the last parsed reading for read(); the actual fetch uses
// a per-request timeout owned by ctx.HTTP (spec.md §5: "the HTTP fetch
// device uses a two-second per-request timeout"), never blocking the
// dispatch loop beyond that bound.
func createHTTPSensor(uid path.Identifier, raw json.RawMessage, ctx *BuildContext) (*Device, error) {
	var spec httpSensorSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, err
	}

	var last value.Value = value.NaN()
	var lastErr error
	var lastPoll time.Time
	interval := time.Duration(spec.PollMS) * time.Millisecond

	poll := func() {
		if ctx.HTTP == nil {
			lastErr = opresult.ErrHardwareFault
			return
		}
		body, err := ctx.HTTP.FetchString(spec.URL)
		if err != nil {
			lastErr = opresult.ErrTimeout
			return
		}
		v, ok := value.ParseLiteral(strings.TrimSpace(body))
		if !ok {
			lastErr = opresult.ErrExecutionFailed
			return
		}
		last = v
		lastErr = nil
	}

	d := &Device{UID: uid, TypeName: "http_sensor", Caps: CapRead | CapExecCommand}
	read := func() (value.Value, error) {
		if lastErr != nil {
			return value.Value{}, lastErr
		}
		return last, nil
	}
	d.Functions = map[string]FuncBinding{"": {Read: read}}
	d.ExecCmdFn = func(cmd string) error {
		if cmd != "poll" {
			return opresult.ErrUnsupportedCommand
		}
		poll()
		return lastErr
	}
	d.LoopFn = func() {
		if interval == 0 {
			poll()
			return
		}
		now := time.Now()
		if lastPoll.IsZero() || now.Sub(lastPoll) >= interval {
			lastPoll = now
			poll()
		}
	}
	d.ToStringFn = func() string {
		return fmt.Sprintf("uid=%q,type=%q,url=%q,value=%s", uid.String(), "http_sensor", spec.URL, last.String())
	}
	return d, nil
}
