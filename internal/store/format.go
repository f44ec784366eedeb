package store

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/freeeve/openingstats/internal/stats"
)

// Index file format:
//
//   Header (32 bytes):
//     - Magic (4): "OSIX"
//     - Version (2): 1
//     - Flags (2): reserved
//     - RecordCount (8): number of position records
//     - Checksum (4): CRC32 of the uncompressed body
//     - Reserved (12): padding to 32 bytes
//   Body (compressed with zstd), records sorted by ID:
//     - IDLen (2): length of the canonical position ID
//     - ID (IDLen): EPD bytes
//     - White (8), Draws (8), Black (8): outcome counts
//
// Sorting keeps the body compressible (shared EPD prefixes) and the
// format deterministic: saving the same index twice yields identical
// bytes.

const (
	indexMagic   = "OSIX"
	indexVersion = 1
	headerSize   = 32

	// IDs are EPD strings, well under this; the cap bounds allocation
	// when decoding untrusted files.
	maxIDLen = 256
)

var (
	errBadMagic   = errors.New("not an index file (bad magic)")
	errTruncated  = errors.New("index file truncated")
	ErrBadVersion = errors.New("unsupported index version")
)

type header struct {
	Version     uint16
	Flags       uint16
	RecordCount uint64
	Checksum    uint32
}

func encodeHeader(h *header) []byte {
	buf := make([]byte, headerSize)
	copy(buf[0:4], indexMagic)
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	binary.LittleEndian.PutUint16(buf[6:8], h.Flags)
	binary.LittleEndian.PutUint64(buf[8:16], h.RecordCount)
	binary.LittleEndian.PutUint32(buf[16:20], h.Checksum)
	return buf
}

func decodeHeader(buf []byte) (*header, error) {
	if len(buf) < headerSize {
		return nil, errTruncated
	}
	if string(buf[0:4]) != indexMagic {
		return nil, errBadMagic
	}
	h := &header{
		Version:     binary.LittleEndian.Uint16(buf[4:6]),
		Flags:       binary.LittleEndian.Uint16(buf[6:8]),
		RecordCount: binary.LittleEndian.Uint64(buf[8:16]),
		Checksum:    binary.LittleEndian.Uint32(buf[16:20]),
	}
	if h.Version != indexVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, h.Version)
	}
	return h, nil
}

func encodeRecord(buf *bytes.Buffer, id string, o stats.Outcome) error {
	if len(id) > maxIDLen {
		return fmt.Errorf("position ID too long: %d bytes", len(id))
	}
	var scratch [8]byte
	binary.LittleEndian.PutUint16(scratch[:2], uint16(len(id)))
	buf.Write(scratch[:2])
	buf.WriteString(id)
	binary.LittleEndian.PutUint64(scratch[:], o.White)
	buf.Write(scratch[:])
	binary.LittleEndian.PutUint64(scratch[:], o.Draws)
	buf.Write(scratch[:])
	binary.LittleEndian.PutUint64(scratch[:], o.Black)
	buf.Write(scratch[:])
	return nil
}

func decodeRecord(body []byte, off int) (id string, o stats.Outcome, next int, err error) {
	if off+2 > len(body) {
		return "", o, 0, errTruncated
	}
	idLen := int(binary.LittleEndian.Uint16(body[off : off+2]))
	off += 2
	if idLen > maxIDLen {
		return "", o, 0, fmt.Errorf("position ID too long: %d bytes", idLen)
	}
	if off+idLen+24 > len(body) {
		return "", o, 0, errTruncated
	}
	id = string(body[off : off+idLen])
	off += idLen
	o.White = binary.LittleEndian.Uint64(body[off : off+8])
	o.Draws = binary.LittleEndian.Uint64(body[off+8 : off+16])
	o.Black = binary.LittleEndian.Uint64(body[off+16 : off+24])
	return id, o, off + 24, nil
}
