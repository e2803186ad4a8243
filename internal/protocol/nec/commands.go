package nec

import (
	"errors"
	"fmt"
)

// Command names one logical operation from the closed command set.
type Command int

const (
	Power Command = iota
	Backlight
)

// Power parameter values from the device documentation.
const (
	PowerOn  = 1
	PowerOff = 4
)

// Backlight level bounds.
const (
	BacklightMin = 0
	BacklightMax = 100
)

var (
	ErrUnknownCommand  = errors.New("nec: unknown command")
	ErrBadCommandValue = errors.New("nec: command value out of range")
)

// commands is the fixed mapping from logical command to wire descriptor.
// Opcodes are per the device documentation; the set is closed, no dynamic
// registration.
var commands = map[Command]Descriptor{
	Power:     {Type: TypeCommand, OpCode: []byte{0x43, 0x32, 0x30, 0x33, 0x44, 0x36}},
	Backlight: {Type: TypeSetParameter, OpCode: []byte{0x30, 0x30, 0x31, 0x30}},
}

func (c Command) String() string {
	switch c {
	case Power:
		return "power"
	case Backlight:
		return "backlight"
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// Lookup returns the wire descriptor for a command.
func Lookup(c Command) (Descriptor, bool) {
	d, ok := commands[c]
	return d, ok
}

// EncodeCommand re-checks the value against the command's documented range
// and encodes the frame. The CLI validates ranges upstream as well; this is
// the last check before bytes hit the wire.
func EncodeCommand(c Command, value int) ([]byte, error) {
	d, ok := commands[c]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownCommand, c)
	}
	if err := checkValue(c, value); err != nil {
		return nil, err
	}
	return Encode(d, value)
}

func checkValue(c Command, value int) error {
	switch c {
	case Power:
		if value != PowerOn && value != PowerOff {
			return fmt.Errorf("%w: power accepts %d or %d, got %d",
				ErrBadCommandValue, PowerOn, PowerOff, value)
		}
	case Backlight:
		if value < BacklightMin || value > BacklightMax {
			return fmt.Errorf("%w: backlight accepts %d..%d, got %d",
				ErrBadCommandValue, BacklightMin, BacklightMax, value)
		}
	}
	return nil
}
