package corpus

import (
	"bufio"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Scanner's line buffer limits. Lichess games top out around a few KB
// per line; 4MB leaves room for pathological move lists.
const (
	scanBufSize = 64 * 1024
	scanBufMax  = 4 * 1024 * 1024
)

// Scanner streams decoded text lines from a corpus file, one at a time.
// Files ending in .zst are decompressed incrementally; the full stream
// is never materialized.
type Scanner struct {
	f  *os.File
	zr *zstd.Decoder
	sc *bufio.Scanner
}

// Open opens a corpus file for line-by-line scanning.
func Open(path string) (*Scanner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	s := &Scanner{f: f}
	if strings.HasSuffix(path, ".zst") {
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		s.zr = zr
		s.sc = bufio.NewScanner(zr)
	} else {
		s.sc = bufio.NewScanner(f)
	}
	s.sc.Buffer(make([]byte, scanBufSize), scanBufMax)
	return s, nil
}

// Scan advances to the next line.
func (s *Scanner) Scan() bool {
	return s.sc.Scan()
}

// Text returns the current line without the trailing newline.
func (s *Scanner) Text() string {
	return s.sc.Text()
}

// Err returns the first error hit while scanning. A corrupt compressed
// stream surfaces here.
func (s *Scanner) Err() error {
	return s.sc.Err()
}

// Close releases the decoder and the underlying file.
func (s *Scanner) Close() error {
	if s.zr != nil {
		s.zr.Close()
	}
	return s.f.Close()
}
