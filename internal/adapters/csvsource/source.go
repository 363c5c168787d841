// Package csvsource reads origin rows from CSV files in a data directory.
package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/ulikunitz/xz"

	"review_insights/internal/domain"
)

// DefaultFiles maps origins to their file names. A ".xz" candidate is tried
// before the plain file.
var DefaultFiles = map[string]string{
	domain.OriginTwitter:   "twitter_reviews.csv",
	domain.OriginEcommerce: "e_commerce_reviews.csv",
	domain.OriginReddit:    "reddit_reviews.csv",
}

type Source struct {
	dir   string
	files map[string]string
}

// New returns a Source over dir. Entries in files override DefaultFiles.
func New(dir string, files map[string]string) *Source {
	merged := make(map[string]string, len(DefaultFiles))
	for k, v := range DefaultFiles {
		merged[k] = v
	}
	for k, v := range files {
		if v != "" {
			merged[k] = v
		}
	}
	return &Source{dir: dir, files: merged}
}

// Load implements domain.SourceIngestor. A missing file yields no rows.
func (s *Source) Load(ctx context.Context, origin string) ([]domain.RawRow, error) {
	name, ok := s.files[origin]
	if !ok {
		return nil, nil
	}
	f, path, err := s.open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("xz %s: %w", path, err)
		}
		r = xr
	}
	rows, skipped, err := ReadRows(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if skipped > 0 {
		log.Warn().Str("origin", origin).Str("file", path).Int("skipped", skipped).Msg("malformed csv lines skipped")
	}
	return rows, nil
}

func (s *Source) open(name string) (*os.File, string, error) {
	candidates := []string{name}
	if !strings.HasSuffix(name, ".xz") {
		candidates = []string{name + ".xz", name}
	}
	var lastErr error
	for _, c := range candidates {
		path := filepath.Join(s.dir, c)
		f, err := os.Open(path)
		if err == nil {
			return f, path, nil
		}
		lastErr = err
	}
	return nil, "", lastErr
}

// ReadRows parses a CSV stream with a header row. Lines whose field count does
// not match the header are skipped and counted.
func ReadRows(ctx context.Context, r io.Reader) ([]domain.RawRow, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var (
		rows    []domain.RawRow
		skipped int
	)
	for {
		if len(rows)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, skipped, err
			}
		}
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			skipped++
			continue
		}
		if err != nil {
			return nil, skipped, err
		}
		if len(rec) != len(header) {
			skipped++
			continue
		}
		row := make(domain.RawRow, len(header))
		for i, col := range header {
			row[col] = rec[i]
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}
