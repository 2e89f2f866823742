//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	hostDiskDefaultPath      = "asios.disk"
	hostDiskDefaultSizeBytes = 2 * 1024 * 1024
	hostDiskEraseBlockBytes  = 4096
	hostDiskWriteBlockBytes  = 256
)

var ErrWriteRequiresErase = errors.New("storage write requires erase")

var _ Storage = (*FileStorage)(nil)

// FileStorage is a NOR-flash-like block device backed by a host file:
// erased bytes read 0xFF and a write may only clear bits.
type FileStorage struct {
	mu      sync.Mutex
	f       *os.File
	size    int64
	scratch [hostDiskEraseBlockBytes]byte
}

// OpenFileStorage opens (or creates and erases) a disk image. An empty path
// falls back to $ASIOS_DISK_PATH, then asios.disk.
func OpenFileStorage(path string, size int64) (*FileStorage, error) {
	if path == "" {
		path = os.Getenv("ASIOS_DISK_PATH")
	}
	if path == "" {
		path = hostDiskDefaultPath
	}
	if size <= 0 {
		size = hostDiskDefaultSizeBytes
	}
	size -= size % hostDiskEraseBlockBytes

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open disk %s: %w", path, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat disk %s: %w", path, err)
	}

	s := &FileStorage{f: f, size: st.Size()}
	for i := range s.scratch {
		s.scratch[i] = 0xFF
	}
	if s.size == 0 {
		s.size = size
		if err := f.Truncate(size); err != nil {
			f.Close()
			return nil, fmt.Errorf("size disk %s: %w", path, err)
		}
		if err := s.EraseBlocks(0, size/hostDiskEraseBlockBytes); err != nil {
			f.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *FileStorage) Size() int64           { return s.size }
func (s *FileStorage) WriteBlockSize() int64 { return hostDiskWriteBlockBytes }
func (s *FileStorage) EraseBlockSize() int64 { return hostDiskEraseBlockBytes }

func (s *FileStorage) ReadAt(p []byte, off int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if off < 0 || off >= s.size {
		return 0, fmt.Errorf("disk read at %d: %w", off, os.ErrInvalid)
	}
	if rem := s.size - off; int64(len(p)) > rem {
		p = p[:rem]
	}
	n, err := s.f.ReadAt(p, off)
	if errors.Is(err, io.EOF) && n == len(p) {
		err = nil
	}
	return n, err
}

func (s *FileStorage) WriteAt(p []byte, off int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if off < 0 || off >= s.size {
		return 0, fmt.Errorf("disk write at %d: %w", off, os.ErrInvalid)
	}
	if rem := s.size - off; int64(len(p)) > rem {
		p = p[:rem]
	}

	buf := make([]byte, len(p))
	if _, err := s.f.ReadAt(buf, off); err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("disk read before write at %d: %w", off, err)
	}
	for i := range p {
		if buf[i]&p[i] != p[i] {
			return 0, ErrWriteRequiresErase
		}
	}
	return s.f.WriteAt(p, off)
}

// EraseBlocks erases n erase blocks starting at block start.
func (s *FileStorage) EraseBlocks(start, n int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n == 0 {
		return nil
	}
	off := start * hostDiskEraseBlockBytes
	if start < 0 || n < 0 || off+n*hostDiskEraseBlockBytes > s.size {
		return fmt.Errorf("disk erase blocks %d+%d: %w", start, n, os.ErrInvalid)
	}
	for ; n > 0; n-- {
		if _, err := s.f.WriteAt(s.scratch[:], off); err != nil {
			return fmt.Errorf("disk erase block at %d: %w", off, err)
		}
		off += hostDiskEraseBlockBytes
	}
	return nil
}

func (s *FileStorage) Close() error {
	if err := s.f.Sync(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}
