// Package msgs provides the telemetry message schemas.
package msgs

// Telemetry is published by the robot over MQTT for operators and
// monitoring tools. Every payload is a Typed envelope carrying a protobuf
// encoded message.
//
// Producer: robot (cmd/robotd)
// Consumer: monitor (cmd/robomon)
