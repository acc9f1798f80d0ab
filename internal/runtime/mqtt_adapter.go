// Package runtime holds the small adapters that let the ambient
// infrastructure clients (MQTT, HTTP) satisfy the narrow collaborator
// interfaces internal/devicetree declares, plus wiring shared by
// cmd/graylogic.
package runtime

import (
	"github.com/nerrad567/gray-logic-core/internal/infrastructure/mqtt"
)

// defaultQoS is used for every publish/subscribe issued through the
// device tree; devices have no notion of QoS themselves (spec.md §3).
const defaultQoS = 1

// MQTTAdapter narrows *mqtt.Client down to devicetree.MQTTPublisher:
// the real client's Publish/Subscribe carry a QoS byte and a handler
// that can return an error, neither of which the device-tree contract
// has room for.
type MQTTAdapter struct {
	client *mqtt.Client
}

// NewMQTTAdapter wraps an already-connected client.
func NewMQTTAdapter(client *mqtt.Client) *MQTTAdapter {
	return &MQTTAdapter{client: client}
}

// Publish always uses defaultQoS; devices that need retained state
// (ha_entity's discovery/availability topics) pass retained=true.
func (a *MQTTAdapter) Publish(topic string, payload []byte, retained bool) error {
	return a.client.Publish(topic, payload, defaultQoS, retained)
}

// Subscribe drops the handler's error return: a device-tree subscriber
// has no way to report a parse failure upstream beyond logging, and the
// underlying client already logs handler errors itself when a logger
// is configured (mqtt.Client.SetLogger).
func (a *MQTTAdapter) Subscribe(topic string, handler func(topic string, payload []byte)) error {
	return a.client.Subscribe(topic, defaultQoS, func(topic string, payload []byte) error {
		handler(topic, payload)
		return nil
	})
}
