package mqtt

import "fmt"

// Topic prefixes used by this runtime's MQTT surface.
//
// Every device-backed MQTT topic lives under the flat
// dalhal/{deviceId}/{uid}/{state,command,status} scheme (internal/devicetree's
// ha_entity and timer device types), independent of the Home Assistant
// discovery topics, which follow HA's own homeassistant/{platform}/{objectID}/config
// layout and are built where the discovery payload is assembled.
const (
	// TopicPrefixDevice is the base for all device state/command/status topics.
	TopicPrefixDevice = "dalhal"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "graylogic/system"
)

// Topics provides builders for this runtime's MQTT topics. Using these
// helpers ensures consistent topic naming between the publisher and
// subscriber sides of a device binding.
//
//	topics := mqtt.Topics{}
//	stateTopic := topics.DeviceState("site-001", "light-living-main")
//	// Returns: "dalhal/site-001/light-living-main/state"
type Topics struct{}

// DeviceState returns the topic a device publishes its current value to.
//
// Example: dalhal/site-001/light-living-main/state
func (Topics) DeviceState(deviceID, uid string) string {
	return fmt.Sprintf("%s/%s/%s/state", TopicPrefixDevice, deviceID, uid)
}

// DeviceCommand returns the topic a device's writes are published to.
//
// Example: dalhal/site-001/light-living-main/command
func (Topics) DeviceCommand(deviceID, uid string) string {
	return fmt.Sprintf("%s/%s/%s/command", TopicPrefixDevice, deviceID, uid)
}

// DeviceStatus returns the retained availability topic for a device,
// carrying the literal payloads "online"/"offline".
//
// Example: dalhal/site-001/light-living-main/status
func (Topics) DeviceStatus(deviceID, uid string) string {
	return fmt.Sprintf("%s/%s/%s/status", TopicPrefixDevice, deviceID, uid)
}

// AllDeviceStates returns a pattern matching every device's state topic,
// for a subscriber that wants to observe every device on the site.
//
// Pattern: dalhal/+/+/state
func (Topics) AllDeviceStates() string {
	return fmt.Sprintf("%s/+/+/state", TopicPrefixDevice)
}

// SystemStatus returns the system status / LWT topic.
//
// Example: graylogic/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}
