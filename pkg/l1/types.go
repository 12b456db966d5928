// Package l1 defines how a robot is identified towards operators.
package l1

import (
	"fmt"
	"strings"
)

// RobotRef is a reference to a robot.
type RobotRef struct {
	// Type is the robot type.
	Type string `yaml:"type"`
	// ID is unique ID of the device.
	ID string `yaml:"id"`
}

// Name retrieves the name from ref.
func (r RobotRef) Name() string {
	return r.Type + "/" + r.ID
}

// IsValid indicates RobotRef is valid.
func (r RobotRef) IsValid() bool {
	return r.Type != "" && r.ID != "" &&
		!strings.ContainsAny(r.Type+r.ID, "/+#")
}

// ParseRobotRef parses TYPE/ID.
func ParseRobotRef(s string) (RobotRef, error) {
	items := strings.Split(s, "/")
	if len(items) != 2 {
		return RobotRef{}, fmt.Errorf("invalid robot reference %q", s)
	}
	ref := RobotRef{Type: items[0], ID: items[1]}
	if !ref.IsValid() {
		return ref, fmt.Errorf("invalid robot reference %q", s)
	}
	return ref, nil
}

// RobotMeta describes a robot, published retained so monitors learn about
// robots which are online.
type RobotMeta struct {
	Description string            `json:"description,omitempty"`
	RadioID     byte              `json:"radio_id"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// RobotInfo provides information of a robot.
type RobotInfo struct {
	Ref  RobotRef
	Meta RobotMeta
}
