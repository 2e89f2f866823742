//go:build !tinygo

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"asios/hal"
	"asios/system/proto"
	"asios/system/services/disk"
)

func TestRunFormatsDirectory(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "test.disk")
	bootPath := filepath.Join(dir, "boot.bin")
	if err := os.WriteFile(bootPath, bytes.Repeat([]byte{0x42}, 200), 0o644); err != nil {
		t.Fatal(err)
	}
	l := layout{sectorsPerTrack: 26, systemTracks: 2, dirEntries: 64}
	if err := run(out, 256*1024, bootPath, l); err != nil {
		t.Fatalf("run: %v", err)
	}

	st, err := hal.OpenFileStorage(out, 0)
	if err != nil {
		t.Fatalf("OpenFileStorage: %v", err)
	}
	defer st.Close()
	sec := disk.NewSectors(st)
	buf := make([]byte, proto.SectorSize)

	if err := sec.Read(l.dirStart(), buf, 1); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, bytes.Repeat([]byte{0xE5}, proto.SectorSize)) {
		t.Fatalf("directory sector not formatted: % x", buf[:8])
	}
	if err := sec.Read(1, buf, 1); err != nil {
		t.Fatal(err)
	}
	if buf[0] != 0x42 || buf[71] != 0x42 || buf[72] != 0 {
		t.Fatalf("boot sector 1 = % x", buf[68:76])
	}
	if err := sec.Read(l.dirStart()+l.dirSectors(), buf, 1); err != nil {
		t.Fatal(err)
	}
	if buf[0] != 0xFF {
		t.Fatalf("sector after directory = %02x, want erased", buf[0])
	}
}

func TestRunRejectsBadLayout(t *testing.T) {
	out := filepath.Join(t.TempDir(), "bad.disk")
	if err := run(out, 256*1024, "", layout{}); err == nil {
		t.Fatal("expected empty layout to fail")
	}
	if err := run(out, 4096, "", layout{sectorsPerTrack: 26, systemTracks: 2, dirEntries: 64}); err == nil {
		t.Fatal("expected a 32-sector disk to be too small")
	}
}
