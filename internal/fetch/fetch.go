// Package fetch downloads monthly PGN dumps from the lichess database.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// MonthRange returns YYYY-MM strings from start to end inclusive.
func MonthRange(start, end string) ([]string, error) {
	cur, err := time.Parse("2006-01", start)
	if err != nil {
		return nil, fmt.Errorf("parse start month %q: %w", start, err)
	}
	last, err := time.Parse("2006-01", end)
	if err != nil {
		return nil, fmt.Errorf("parse end month %q: %w", end, err)
	}

	var months []string
	for !cur.After(last) {
		months = append(months, cur.Format("2006-01"))
		cur = cur.AddDate(0, 1, 0)
	}
	return months, nil
}

// URL returns the lichess standard-rated database URL for a month.
func URL(month string) string {
	return fmt.Sprintf("https://database.lichess.org/standard/lichess_db_standard_rated_%s.pgn.zst", month)
}

// Download streams url to dest. The body goes to a temp file first and
// is renamed on success, so an interrupted download never leaves a
// partial dump behind under the final name.
func Download(ctx context.Context, url, dest string, log zerolog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	tmpPath := dest + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmpPath, err)
	}

	start := time.Now()
	n, err := io.Copy(f, resp.Body)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("download %s: %w", url, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", dest, err)
	}

	log.Info().
		Str("dest", filepath.Base(dest)).
		Int64("bytes", n).
		Dur("elapsed", time.Since(start)).
		Msg("download complete")
	return nil
}
