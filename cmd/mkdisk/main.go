//go:build !tinygo

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"asios/hal"
	"asios/system/proto"
	"asios/system/services/disk"
)

const (
	defaultDiskPath = "asios.disk"
	defaultDiskSize = 2 * 1024 * 1024
)

// layout is a CP/M style disk geometry: reserved system tracks followed by
// the directory.
type layout struct {
	sectorsPerTrack int
	systemTracks    int
	dirEntries      int
}

func (l layout) dirStart() int   { return l.sectorsPerTrack * l.systemTracks }
func (l layout) dirSectors() int { return (l.dirEntries*32 + proto.SectorSize - 1) / proto.SectorSize }

func main() {
	var outPath, bootPath string
	var size int64
	var l layout
	flag.StringVar(&outPath, "out", defaultDiskPath, "Output disk image path.")
	flag.Int64Var(&size, "size", defaultDiskSize, "Disk image size (bytes).")
	flag.StringVar(&bootPath, "boot", "", "Optional file written to the system tracks.")
	flag.IntVar(&l.sectorsPerTrack, "spt", 26, "Sectors per track.")
	flag.IntVar(&l.systemTracks, "systracks", 2, "Reserved system tracks.")
	flag.IntVar(&l.dirEntries, "dirents", 64, "Directory entries.")
	flag.Parse()

	if outPath == "" {
		fmt.Fprintln(os.Stderr, "error: -out is required")
		os.Exit(2)
	}
	if err := run(outPath, size, bootPath, l); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(outPath string, size int64, bootPath string, l layout) error {
	if l.sectorsPerTrack <= 0 || l.systemTracks < 0 || l.dirEntries <= 0 {
		return errors.New("invalid disk layout")
	}
	if err := os.Remove(outPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %q: %w", outPath, err)
	}
	st, err := hal.OpenFileStorage(outPath, size)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	sec := disk.NewSectors(st)
	if l.dirStart()+l.dirSectors() > sec.Count() {
		return fmt.Errorf("disk of %d sectors too small for layout", sec.Count())
	}
	if err := format(sec, l); err != nil {
		return err
	}
	if bootPath != "" {
		if err := writeBoot(sec, l, bootPath); err != nil {
			return err
		}
	}
	return nil
}

// format fills the directory with empty (0xE5) entries.
func format(sec *disk.Sectors, l layout) error {
	buf := make([]byte, proto.SectorSize)
	for i := range buf {
		buf[i] = 0xE5
	}
	for i := 0; i < l.dirSectors(); i++ {
		if err := sec.Write(l.dirStart()+i, buf, 1); err != nil {
			return fmt.Errorf("format directory: %w", err)
		}
	}
	return nil
}

func writeBoot(sec *disk.Sectors, l layout, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read boot image: %w", err)
	}
	n := (len(data) + proto.SectorSize - 1) / proto.SectorSize
	if n > l.dirStart() {
		return fmt.Errorf("boot image %q: %d sectors, system tracks hold %d", path, n, l.dirStart())
	}
	buf := make([]byte, n*proto.SectorSize)
	copy(buf, data)
	if err := sec.Write(0, buf, n); err != nil {
		return fmt.Errorf("write boot image: %w", err)
	}
	return nil
}
