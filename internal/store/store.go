// Package store persists the aggregated position index to a single
// file and reloads it for querying. Saves are atomic: the file is
// written to a temp path and renamed into place, so a reader never
// observes a half-written index.
package store

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"os"
	"sort"

	"github.com/klauspost/compress/zstd"

	"github.com/freeeve/openingstats/internal/stats"
)

// Save serializes the aggregator to path in one atomic unit.
func Save(path string, agg *stats.Aggregator) error {
	ids := make([]string, 0, agg.Len())
	agg.Range(func(id string, _ stats.Outcome) bool {
		ids = append(ids, id)
		return true
	})
	sort.Strings(ids)

	var body bytes.Buffer
	for _, id := range ids {
		if err := encodeRecord(&body, id, agg.Get(id)); err != nil {
			return fmt.Errorf("encode index: %w", err)
		}
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("create encoder: %w", err)
	}
	compressed := enc.EncodeAll(body.Bytes(), nil)
	enc.Close()

	h := header{
		Version:     indexVersion,
		RecordCount: uint64(agg.Len()),
		Checksum:    crc32.ChecksumIEEE(body.Bytes()),
	}

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmpPath, err)
	}
	if _, err := f.Write(encodeHeader(&h)); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := f.Write(compressed); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write body: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename index into place: %w", err)
	}
	return nil
}

// Index is a loaded, read-only position index.
type Index struct {
	m map[string]stats.Outcome
}

// Load reads an index file back into a queryable Index.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	h, err := decodeHeader(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	defer dec.Close()

	body, err := dec.DecodeAll(data[headerSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("%s: decompress: %w", path, err)
	}
	if crc32.ChecksumIEEE(body) != h.Checksum {
		return nil, fmt.Errorf("%s: checksum mismatch", path)
	}

	m := make(map[string]stats.Outcome, h.RecordCount)
	off := 0
	for i := uint64(0); i < h.RecordCount; i++ {
		id, o, next, err := decodeRecord(body, off)
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", path, i, err)
		}
		m[id] = o
		off = next
	}
	if off != len(body) {
		return nil, fmt.Errorf("%s: %d trailing bytes after last record", path, len(body)-off)
	}

	return &Index{m: m}, nil
}

// Lookup returns the outcome triple for a canonical position ID. An
// absent key is not an error; it means the position was never observed
// and yields the zero triple.
func (ix *Index) Lookup(id string) stats.Outcome {
	return ix.m[id]
}

// Len returns the number of distinct positions in the index.
func (ix *Index) Len() int {
	return len(ix.m)
}

// TotalGames returns the game count observed at the standard starting
// position under rootID, i.e. how many games the index was built from.
func (ix *Index) TotalGames(rootID string) uint64 {
	return ix.m[rootID].Count()
}

// Seed adds every stored count into agg bucket-wise. Building against
// an existing index loads it and seeds the run's aggregator, so counts
// across runs sum and are never overwritten.
func (ix *Index) Seed(agg *stats.Aggregator) {
	for id, o := range ix.m {
		agg.AddOutcome(id, o)
	}
}
