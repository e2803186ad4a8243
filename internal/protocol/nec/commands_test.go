package nec

import (
	"bytes"
	"errors"
	"testing"
)

func TestCommandTableComplete(t *testing.T) {
	for _, c := range []Command{Power, Backlight} {
		d, ok := Lookup(c)
		if !ok {
			t.Fatalf("%v: descriptor missing", c)
		}
		if len(d.OpCode) == 0 {
			t.Fatalf("%v: empty opcode", c)
		}
	}
	if _, ok := Lookup(Command(99)); ok {
		t.Fatalf("unexpected descriptor for unknown command")
	}
}

func TestEncodeCommandPowerValues(t *testing.T) {
	for _, value := range []int{PowerOn, PowerOff} {
		if _, err := EncodeCommand(Power, value); err != nil {
			t.Fatalf("power %d: %v", value, err)
		}
	}
	for _, value := range []int{0, 2, 3, 5, 100} {
		if _, err := EncodeCommand(Power, value); !errors.Is(err, ErrBadCommandValue) {
			t.Fatalf("power %d: expected ErrBadCommandValue, got %v", value, err)
		}
	}
}

func TestEncodeCommandBacklightRange(t *testing.T) {
	for _, value := range []int{BacklightMin, 1, 50, 99, BacklightMax} {
		if _, err := EncodeCommand(Backlight, value); err != nil {
			t.Fatalf("backlight %d: %v", value, err)
		}
	}
	for _, value := range []int{-1, 101, 255} {
		if _, err := EncodeCommand(Backlight, value); !errors.Is(err, ErrBadCommandValue) {
			t.Fatalf("backlight %d: expected ErrBadCommandValue, got %v", value, err)
		}
	}
}

func TestEncodeCommandUnknown(t *testing.T) {
	if _, err := EncodeCommand(Command(42), 1); !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestEncodeCommandMatchesEncode(t *testing.T) {
	d, _ := Lookup(Power)
	want, err := Encode(d, PowerOff)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := EncodeCommand(Power, PowerOff)
	if err != nil {
		t.Fatalf("encode command: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("frames differ:\n%x\n%x", got, want)
	}
}
