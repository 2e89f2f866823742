//go:build !tinygo

package hal

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

func TestFileStorageFlashRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")
	s, err := OpenFileStorage(path, 3*hostDiskEraseBlockBytes+100)
	if err != nil {
		t.Fatalf("OpenFileStorage: %v", err)
	}
	defer s.Close()

	if got := s.Size(); got != 3*hostDiskEraseBlockBytes {
		t.Fatalf("Size() = %d, want whole erase blocks", got)
	}
	buf := make([]byte, 16)
	if _, err := s.ReadAt(buf, 100); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if !bytes.Equal(buf, bytes.Repeat([]byte{0xFF}, 16)) {
		t.Fatalf("new image not erased: % x", buf)
	}

	if _, err := s.WriteAt([]byte{0x0F}, 100); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}
	if _, err := s.WriteAt([]byte{0xF0}, 100); !errors.Is(err, ErrWriteRequiresErase) {
		t.Fatalf("WriteAt setting bits = %v, want ErrWriteRequiresErase", err)
	}
	if err := s.EraseBlocks(0, 1); err != nil {
		t.Fatalf("EraseBlocks: %v", err)
	}
	if _, err := s.WriteAt([]byte{0xF0}, 100); err != nil {
		t.Fatalf("WriteAt after erase: %v", err)
	}
	if err := s.EraseBlocks(2, 2); err == nil {
		t.Fatal("EraseBlocks past the end succeeded")
	}
}

func TestFileStorageReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")
	s, err := OpenFileStorage(path, 2*hostDiskEraseBlockBytes)
	if err != nil {
		t.Fatalf("OpenFileStorage: %v", err)
	}
	if _, err := s.WriteAt([]byte("asios"), 4096); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	t.Setenv("ASIOS_DISK_PATH", path)
	s, err = OpenFileStorage("", 0)
	if err != nil {
		t.Fatalf("reopen via env: %v", err)
	}
	defer s.Close()
	buf := make([]byte, 5)
	if _, err := s.ReadAt(buf, 4096); err != nil || string(buf) != "asios" {
		t.Fatalf("ReadAt = %q, %v", buf, err)
	}
	if s.Size() != 2*hostDiskEraseBlockBytes {
		t.Fatalf("Size() = %d, want existing size", s.Size())
	}
}
