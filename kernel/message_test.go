package kernel

import "testing"

func TestMessageWords(t *testing.T) {
	var m Message
	m.SetReq(uint8(ReqDiskio))
	for i := 0; i < MessageWords; i++ {
		m.SetWord(i, int32(-1000*i))
	}
	if Request(m.Req()) != ReqDiskio {
		t.Fatalf("Req() = %d", m.Req())
	}
	for i := 0; i < MessageWords; i++ {
		if got := m.Word(i); got != int32(-1000*i) {
			t.Fatalf("Word(%d) = %d", i, got)
		}
	}
	if m[4] != 0 || m[8] != 0x18 || m[9] != 0xFC {
		t.Fatalf("payload not little-endian: % x", m[4:12])
	}
	if len(m.Payload()) != MessageSize-4 {
		t.Fatalf("Payload() length = %d", len(m.Payload()))
	}
}

func TestStateOrder(t *testing.T) {
	if !(StateUnused < StateSuspended && StateSuspended < StateWaiting &&
		StateWaiting < StateRunnable && StateRunnable < StateActive) {
		t.Fatal("state order broken")
	}
	if StateWaiting.code() != 'W' || TypeDriver.code() != '~' {
		t.Fatal("dump codes changed")
	}
}
