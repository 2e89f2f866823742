package gpio

import (
	"testing"

	"asios/hal"
	"asios/internal/testutil"
	"asios/system/proto"
)

func TestApply(t *testing.T) {
	log := &testutil.Log{}
	pins := hal.NewGPIO(hal.NewVirtualPin("GP0"), hal.NewVirtualPin("GP1"))
	s := New(pins, log)

	if r := s.Apply(1, proto.GpioHigh); r != proto.Fail {
		t.Fatalf("write before configure = %d, want -1", r)
	}
	if !log.Contains("not in output mode") {
		t.Fatalf("expected a log line, got %q", log.Lines())
	}
	if r := s.Apply(1, proto.GpioConfigure); r != proto.OK {
		t.Fatalf("configure = %d", r)
	}
	if r := s.Apply(1, proto.GpioHigh); r != proto.OK {
		t.Fatalf("high = %d", r)
	}
	if level, _ := pins.Pin(1).Read(); !level {
		t.Fatal("pin 1 not high")
	}
	if r := s.Apply(1, proto.GpioLow); r != proto.OK {
		t.Fatalf("low = %d", r)
	}
	if level, _ := pins.Pin(1).Read(); level {
		t.Fatal("pin 1 not low")
	}

	for _, tc := range []struct{ pin, cmd int }{{2, proto.GpioConfigure}, {-1, proto.GpioHigh}, {0, 9}} {
		if r := s.Apply(tc.pin, tc.cmd); r != proto.Fail {
			t.Fatalf("Apply(%d, %d) = %d, want -1", tc.pin, tc.cmd, r)
		}
	}
	if r := New(nil, nil).Apply(0, proto.GpioConfigure); r != proto.Fail {
		t.Fatalf("Apply without pins = %d, want -1", r)
	}
}
