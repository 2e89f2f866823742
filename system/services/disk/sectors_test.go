package disk

import (
	"bytes"
	"errors"
	"testing"

	"asios/system/proto"

	"tinygo.org/x/tinyfs"
)

// norDevice wraps a memory device with flash rules: writes may only clear
// bits, so a rewrite without erase shows up as corrupted data.
type norDevice struct {
	*tinyfs.MemBlockDevice
	erases int
}

func (d *norDevice) WriteAt(p []byte, off int64) (int, error) {
	old := make([]byte, len(p))
	if _, err := d.MemBlockDevice.ReadAt(old, off); err != nil {
		return 0, err
	}
	for i := range p {
		if old[i]&p[i] != p[i] {
			return 0, errors.New("write requires erase")
		}
	}
	return d.MemBlockDevice.WriteAt(p, off)
}

func (d *norDevice) EraseBlocks(start, n int64) error {
	d.erases++
	buf := bytes.Repeat([]byte{0xFF}, int(n*d.EraseBlockSize()))
	_, err := d.MemBlockDevice.WriteAt(buf, start*d.EraseBlockSize())
	return err
}

func newNOR(t *testing.T) *norDevice {
	t.Helper()
	d := &norDevice{MemBlockDevice: tinyfs.NewMemoryDevice(256, 1024, 8)}
	if err := d.EraseBlocks(0, 8); err != nil {
		t.Fatalf("erase: %v", err)
	}
	d.erases = 0
	return d
}

func TestSectorsRewrite(t *testing.T) {
	dev := newNOR(t)
	s := NewSectors(dev)
	if got := s.Count(); got != 8*1024/proto.SectorSize {
		t.Fatalf("Count() = %d, want %d", got, 8*1024/proto.SectorSize)
	}

	a := bytes.Repeat([]byte{0x11}, proto.SectorSize)
	b := bytes.Repeat([]byte{0xEE}, proto.SectorSize)
	if err := s.Write(3, a, 1); err != nil {
		t.Fatalf("Write(a): %v", err)
	}
	if err := s.Write(3, b, 1); err != nil {
		t.Fatalf("Write(b): %v", err)
	}
	if err := s.Write(4, a, 1); err != nil {
		t.Fatalf("Write(neighbor): %v", err)
	}

	got := make([]byte, 2*proto.SectorSize)
	if err := s.Read(3, got, 2); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got[:proto.SectorSize], b) || !bytes.Equal(got[proto.SectorSize:], a) {
		t.Fatal("sector contents lost across rewrite")
	}
}

func TestSectorsSpanEraseBlocks(t *testing.T) {
	dev := newNOR(t)
	s := NewSectors(dev)
	per := 1024 / proto.SectorSize
	data := make([]byte, 3*proto.SectorSize)
	for i := range data {
		data[i] = byte(i)
	}
	if err := s.Write(per-1, data, 3); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if dev.erases != 2 {
		t.Fatalf("erases = %d, want 2", dev.erases)
	}
	got := make([]byte, len(data))
	if err := s.Read(per-1, got, 3); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("data differs after spanning write")
	}

	// Unchanged data skips the erase.
	if err := s.Write(per-1, data, 3); err != nil {
		t.Fatalf("Write again: %v", err)
	}
	if dev.erases != 2 {
		t.Fatalf("erases = %d after identical write, want 2", dev.erases)
	}
}

func TestSectorsBounds(t *testing.T) {
	s := NewSectors(newNOR(t))
	buf := make([]byte, proto.SectorSize)
	if err := s.Read(s.Count(), buf, 1); !errors.Is(err, ErrBadSector) {
		t.Fatalf("Read past end = %v, want ErrBadSector", err)
	}
	if err := s.Write(-1, buf, 1); !errors.Is(err, ErrBadSector) {
		t.Fatalf("Write(-1) = %v, want ErrBadSector", err)
	}
	if err := s.Write(0, buf, 2); !errors.Is(err, ErrShortBuf) {
		t.Fatalf("Write with short buffer = %v, want ErrShortBuf", err)
	}
}

func TestDiskioDirection(t *testing.T) {
	svc := New(newNOR(t), nil)
	out := bytes.Repeat([]byte{0x42}, proto.SectorSize)
	if r := svc.Diskio(proto.DiskWrite|1, 5, out, 1); r != proto.OK {
		t.Fatalf("Diskio(write) = %d", r)
	}
	in := make([]byte, proto.SectorSize)
	if r := svc.Diskio(1, 5, in, 1); r != proto.OK || !bytes.Equal(in, out) {
		t.Fatalf("Diskio(read) = %d, data match %t", r, bytes.Equal(in, out))
	}
	if r := New(nil, nil).Diskio(0, 0, in, 1); r != proto.Fail {
		t.Fatalf("Diskio without device = %d, want -1", r)
	}
}
