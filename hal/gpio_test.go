package hal

import "testing"

type countLED struct{ high, low int }

func (l *countLED) High() { l.high++ }
func (l *countLED) Low()  { l.low++ }

func TestLEDPin(t *testing.T) {
	led := &countLED{}
	p := NewLEDPin("LED", led)
	if err := p.Write(true); err == nil {
		t.Fatal("expected write before configure to fail")
	}
	if err := p.Configure(GPIOModeInput); err == nil {
		t.Fatal("expected input mode to be rejected")
	}
	if err := p.Configure(GPIOModeOutput); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	p.Write(true)
	p.Write(false)
	if led.high != 1 || led.low != 1 {
		t.Fatalf("led high=%d low=%d, want 1/1", led.high, led.low)
	}
	if NewLEDPin("none", nil) != nil {
		t.Fatal("expected nil pin for nil LED")
	}
}

func TestGPIOBank(t *testing.T) {
	g := NewGPIO(NewVirtualPin("A"), NewVirtualPin("B"))
	if g.PinCount() != 2 || g.Pin(2) != nil || g.Pin(-1) != nil {
		t.Fatal("pin bounds not enforced")
	}
	p := g.Pin(1)
	if err := p.Write(true); err == nil {
		t.Fatal("expected write on input pin to fail")
	}
	p.Configure(GPIOModeOutput)
	p.Write(true)
	if level, _ := p.Read(); !level {
		t.Fatal("expected pin to read back high")
	}
}

func TestMemConsole(t *testing.T) {
	c := NewMemConsole("hi")
	if c.Readable() != 2 {
		t.Fatalf("Readable() = %d, want 2", c.Readable())
	}
	b, _ := c.Getc()
	c.Feed("!")
	if b != 'h' || c.Readable() != 2 {
		t.Fatalf("Getc() = %q, Readable() = %d", b, c.Readable())
	}
	c.Putc('o')
	c.Putc('k')
	if c.Output() != "ok" {
		t.Fatalf("Output() = %q", c.Output())
	}
}
