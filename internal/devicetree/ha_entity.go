package devicetree

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/nerrad567/gray-logic-core/internal/event"
	"github.com/nerrad567/gray-logic-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-core/internal/opresult"
	"github.com/nerrad567/gray-logic-core/internal/path"
	"github.com/nerrad567/gray-logic-core/internal/value"
)

func init() {
	Register("ha_entity", TypeEntry{Verify: verifyHAEntity, Create: createHAEntity})
}

// haEntitySpec describes a single MQTT-backed Home Assistant entity.
// Platform selects the discovery payload shape (spec.md §6): "sensor"
// and "binary_sensor" are read-only, "switch" and "number" accept
// writes published to the command topic.
type haEntitySpec struct {
	Platform string `json:"platform"`
}

var haWritablePlatforms = map[string]bool{"switch": true, "number": true}

// haDiscoveryPayload is the Home Assistant MQTT discovery document
// published retained to homeassistant/<platform>/<objectID>/config
// (spec.md §6, §4.12 expansion). Field names follow the HA discovery
// schema, not this codebase's conventions.
type haDiscoveryPayload struct {
	Name                string           `json:"name"`
	UniqueID            string           `json:"unique_id"`
	StateTopic          string           `json:"state_topic"`
	CommandTopic        string           `json:"command_topic,omitempty"`
	AvailabilityTopic   string           `json:"availability_topic"`
	PayloadAvailable    string           `json:"payload_available"`
	PayloadNotAvailable string           `json:"payload_not_available"`
	Device              haDiscoveryDevice `json:"device"`
}

type haDiscoveryDevice struct {
	Identifiers []string `json:"identifiers"`
	Name        string   `json:"name"`
}

// shortHex returns up to the first 8 hex characters of s's byte
// representation, used to disambiguate the discovery object ID without
// requiring a cryptographic hash.
func shortHex(s string) string {
	h := hex.EncodeToString([]byte(s))
	if len(h) > 8 {
		return h[:8]
	}
	return h
}

func verifyHAEntity(raw json.RawMessage) error {
	var s haEntitySpec
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}
	if s.Platform == "" {
		return fmt.Errorf("%w: \"platform\"", opresult.ErrMissingKey)
	}
	return nil
}

// createHAEntity wires a device to the dalhal/<deviceId>/<uid>/{state,
// command} topic pair (spec.md §6). State updates arrive asynchronously
// via MQTT subscription and are cached for read(); writes publish to
// the command topic and are mirrored locally for immediate read-back,
// since the broker round-trip would otherwise race the next tick.
// Grounded on the source's HA_TopicBasePath topic-template scheme.
func createHAEntity(uid path.Identifier, raw json.RawMessage, ctx *BuildContext) (*Device, error) {
	var spec haEntitySpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, err
	}

	topics := mqtt.Topics{}
	stateTopic := topics.DeviceState(ctx.DeviceID, uid.String())
	commandTopic := topics.DeviceCommand(ctx.DeviceID, uid.String())
	statusTopic := topics.DeviceStatus(ctx.DeviceID, uid.String())
	objectID := fmt.Sprintf("dalhal_%s_%s_%s", shortHex(uid.String()), ctx.DeviceID, uid.String())
	discoveryTopic := fmt.Sprintf("homeassistant/%s/%s/config", spec.Platform, objectID)

	var cached value.Value = value.NaN()
	var changeCount uint64

	caps := CapRead | CapEventSubscribe
	writable := haWritablePlatforms[spec.Platform]
	if writable {
		caps |= CapWrite
	}

	d := &Device{UID: uid, TypeName: "ha_entity", Caps: caps}
	read := func() (value.Value, error) { return cached, nil }

	binding := FuncBinding{Read: read}
	if writable {
		binding.Write = func(v value.Value) error {
			if ctx.MQTT == nil {
				return opresult.ErrHardwareFault
			}
			if err := ctx.MQTT.Publish(commandTopic, []byte(v.String()), false); err != nil {
				return opresult.ErrHardwareFault
			}
			cached = v
			changeCount++
			return nil
		}
	}
	d.Functions = map[string]FuncBinding{"": binding}

	d.BeginFn = func() {
		if ctx.MQTT == nil {
			return
		}
		payload := haDiscoveryPayload{
			Name:                fmt.Sprintf("%s %s", ctx.DeviceID, uid.String()),
			UniqueID:            objectID,
			StateTopic:          stateTopic,
			AvailabilityTopic:   statusTopic,
			PayloadAvailable:    "online",
			PayloadNotAvailable: "offline",
			Device:              haDiscoveryDevice{Identifiers: []string{ctx.DeviceID}, Name: ctx.DeviceID},
		}
		if writable {
			payload.CommandTopic = commandTopic
		}
		if body, err := json.Marshal(payload); err == nil {
			_ = ctx.MQTT.Publish(discoveryTopic, body, true)
		}
		_ = ctx.MQTT.Publish(statusTopic, []byte("online"), true)

		_ = ctx.MQTT.Subscribe(stateTopic, func(_ string, payload []byte) {
			if v, ok := value.ParseLiteral(string(payload)); ok {
				cached = v
				changeCount++
			}
		})
	}
	d.SubscribeFn = func(name string) (*event.Event, error) {
		if name != "value_change" {
			return nil, opresult.ErrDeviceEventByNameNotFound
		}
		return event.NewCounterWatcher(func() uint64 { return changeCount }), nil
	}
	d.ToStringFn = func() string {
		return fmt.Sprintf("uid=%q,type=%q,platform=%q,value=%s", uid.String(), "ha_entity", spec.Platform, cached.String())
	}
	return d, nil
}
