package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func writeZst(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw, err := zstd.NewWriter(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := zw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func scanAll(t *testing.T, path string) []string {
	t.Helper()
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var lines []string
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return lines
}

func TestScanner_Zst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.pgn.zst")
	writeZst(t, path, "e4 e5 1-0\n\nd4 d5 1/2-1/2\n\n")

	lines := scanAll(t, path)
	want := []string{"e4 e5 1-0", "", "d4 d5 1/2-1/2", ""}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines %q, want %d", len(lines), lines, len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestScanner_Plain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.pgn")
	if err := os.WriteFile(path, []byte("e4 c5 0-1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	lines := scanAll(t, path)
	if len(lines) != 1 || lines[0] != "e4 c5 0-1" {
		t.Fatalf("got %q, want one line \"e4 c5 0-1\"", lines)
	}
}

func TestScanner_CorruptZst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.pgn.zst")
	if err := os.WriteFile(path, []byte("not a zstd frame at all"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path)
	if err != nil {
		// Rejected at open is fine too.
		return
	}
	defer s.Close()
	for s.Scan() {
	}
	if s.Err() == nil {
		t.Fatal("expected an error scanning a corrupt stream")
	}
}

func TestScanner_MissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.pgn.zst")); err == nil {
		t.Fatal("expected error opening missing file")
	}
}
