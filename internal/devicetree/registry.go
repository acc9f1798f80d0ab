package devicetree

import (
	"encoding/json"

	"github.com/nerrad567/gray-logic-core/internal/path"
)

// Logger is the narrow slice of the ambient structured logger that
// device constructors need; satisfied by the process logging wrapper.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MQTTPublisher is the narrow slice of the MQTT client that MQTT-backed
// device kinds (ha_entity, timer publishers) depend on, kept as an
// interface here so devicetree does not import the transport package.
type MQTTPublisher interface {
	Publish(topic string, payload []byte, retained bool) error
	Subscribe(topic string, handler func(topic string, payload []byte)) error
}

// HTTPFetcher is the narrow slice of an HTTP client that http_sensor
// devices depend on.
type HTTPFetcher interface {
	FetchString(url string) (string, error)
}

// BuildContext carries the collaborators device constructors need that
// are not present in their own JSON node: the owning deviceId (used in
// MQTT topic templates, spec.md §6) and the ambient infrastructure
// handles. One BuildContext is built per configuration load and
// discarded with the old tree on reload.
type BuildContext struct {
	DeviceID string
	Log      Logger
	MQTT     MQTTPublisher
	HTTP     HTTPFetcher
	GPIO     GPIOBus
	I2C      I2CBus
}

// Factory builds one device instance from its already-verified JSON
// node. uid has already been decoded and checked for sibling-uniqueness
// by the loader.
type Factory func(uid path.Identifier, raw json.RawMessage, ctx *BuildContext) (*Device, error)

// Verifier performs structural/semantic validation of a device's JSON
// node before any device of that type is constructed (spec.md §6,
// "two-pass verify-then-construct"). A nil Verifier means the type has
// no validation beyond the common uid/type header.
type Verifier func(raw json.RawMessage) error

// TypeEntry is one row of the type-name → factory/validator table.
type TypeEntry struct {
	Verify Verifier
	Create Factory
}

var registry = map[string]TypeEntry{}

// Register adds typeName to the device type registry. Concrete device
// files call this from an init() function, mirroring the source's
// static per-class RegistryDefine table.
func Register(typeName string, entry TypeEntry) {
	registry[typeName] = entry
}

func lookup(typeName string) (TypeEntry, bool) {
	entry, ok := registry[typeName]
	return entry, ok
}
