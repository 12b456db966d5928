// Package comm implements the radio command protocol received by the robot.
package comm

// The radio link is half-duplex and shared by several robots, so one read
// from the transport usually carries many messages back to back, some for
// other robots and some corrupted in flight. Every message is hexadecimal
// text:
//
//	<preamble:4><address:2><type:2><length:2><data:length><checksum:2>
//
// The preamble is "0000" and is used to find message boundaries again after
// garbage. Address is the robot id or FF for broadcast. Data is one signed
// hexadecimal value or several separated by ','. The checksum is the sum of
// the ASCII values from the address through the end of data, modulo 255.
//
// Example, MOTORS 300,500 for robot 0x69:
//
//	000069030712C,1F4B8
//
// There is no acknowledgement. Senders repeat a command to make it through.
//
// Producer: operator station (see cmd/robocli)
// Consumer: robot control loop
