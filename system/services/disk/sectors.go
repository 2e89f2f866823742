package disk

import (
	"errors"
	"fmt"

	"asios/system/proto"

	"tinygo.org/x/tinyfs"
)

var (
	ErrBadSector = errors.New("bad sector")
	ErrShortBuf  = errors.New("buffer too short")
)

// Sectors presents a block device as an array of fixed-size sectors.
// Writes go through a read-modify-erase-write cycle on the enclosing erase
// block, so sectors smaller than an erase block can be rewritten freely.
type Sectors struct {
	dev   tinyfs.BlockDevice
	erase int64 // bytes per rewrite unit
	per   int64 // device erase blocks per unit
	block []byte
	count int
}

// NewSectors wraps dev. The device size is rounded down to whole sectors.
func NewSectors(dev tinyfs.BlockDevice) *Sectors {
	devErase := dev.EraseBlockSize()
	if devErase <= 0 {
		devErase = proto.SectorSize
	}
	per := int64(1)
	for devErase*per < proto.SectorSize {
		per++
	}
	erase := devErase * per
	return &Sectors{
		dev:   dev,
		erase: erase,
		per:   per,
		block: make([]byte, erase),
		count: int(dev.Size() / proto.SectorSize),
	}
}

// Count returns the number of sectors.
func (s *Sectors) Count() int { return s.count }

func (s *Sectors) check(pos int, buf []byte, cnt int) error {
	if pos < 0 || cnt < 0 || pos+cnt > s.count {
		return fmt.Errorf("sectors %d+%d of %d: %w", pos, cnt, s.count, ErrBadSector)
	}
	if len(buf) < cnt*proto.SectorSize {
		return fmt.Errorf("sectors %d+%d: %w", pos, cnt, ErrShortBuf)
	}
	return nil
}

// Read copies cnt sectors starting at pos into buf.
func (s *Sectors) Read(pos int, buf []byte, cnt int) error {
	if err := s.check(pos, buf, cnt); err != nil {
		return err
	}
	n := cnt * proto.SectorSize
	if _, err := s.dev.ReadAt(buf[:n], int64(pos)*proto.SectorSize); err != nil {
		return fmt.Errorf("read sector %d: %w", pos, err)
	}
	return nil
}

// Write stores cnt sectors from buf starting at pos.
func (s *Sectors) Write(pos int, buf []byte, cnt int) error {
	if err := s.check(pos, buf, cnt); err != nil {
		return err
	}
	off := int64(pos) * proto.SectorSize
	data := buf[:cnt*proto.SectorSize]
	for len(data) > 0 {
		blk := off / s.erase
		base := blk * s.erase
		start := off - base
		n := s.erase - start
		if n > int64(len(data)) {
			n = int64(len(data))
		}
		if err := s.rewrite(blk, base, start, data[:n]); err != nil {
			return err
		}
		off += n
		data = data[n:]
	}
	return nil
}

func (s *Sectors) rewrite(blk, base, start int64, data []byte) error {
	if _, err := s.dev.ReadAt(s.block, base); err != nil {
		return fmt.Errorf("read erase block %d: %w", blk, err)
	}
	same := true
	for i, b := range data {
		if s.block[start+int64(i)] != b {
			same = false
			break
		}
	}
	if same {
		return nil
	}
	copy(s.block[start:], data)
	if err := s.dev.EraseBlocks(blk*s.per, s.per); err != nil {
		return fmt.Errorf("erase block %d: %w", blk, err)
	}
	wb := s.dev.WriteBlockSize()
	if wb <= 0 || s.erase%wb != 0 {
		wb = s.erase
	}
	for o := int64(0); o < s.erase; o += wb {
		if _, err := s.dev.WriteAt(s.block[o:o+wb], base+o); err != nil {
			return fmt.Errorf("write block at %d: %w", base+o, err)
		}
	}
	return nil
}
