package incident

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	// ErrEmptyHeader is returned for a CSV source without a header row.
	ErrEmptyHeader = errors.New("dataset has no header row")
	// ErrUnsupportedSource is returned for sources that are neither a path
	// nor an http(s) URL.
	ErrUnsupportedSource = errors.New("unsupported dataset source")
)

// LoadOptions controls how a dataset source is read.
type LoadOptions struct {
	Columns Columns
	// Timeout bounds a remote fetch. Zero means 30 seconds.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Load reads and normalizes the whole dataset from a local path or an
// http(s) URL. Exactly one attempt is made.
func Load(ctx context.Context, source string, opts LoadOptions) (*Dataset, error) {
	if opts.Columns.DateOccurred == nil {
		opts.Columns = DefaultColumns()
	}

	rc, err := open(ctx, source, opts)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var records []Record
	if isSnapshot(source) {
		records, err = ReadSnapshot(rc)
	} else {
		records, err = ReadCSV(rc, opts.Columns)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}

	log.Info().Str("source", source).Int("count", len(records)).Msg("Loaded incident dataset")
	return NewDataset(source, records), nil
}

func open(ctx context.Context, source string, opts LoadOptions) (io.ReadCloser, error) {
	switch {
	case source == "":
		return nil, fmt.Errorf("%w: empty source", ErrUnsupportedSource)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return fetch(ctx, source, opts)
	case strings.Contains(source, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, source)
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	return f, nil
}

func fetch(ctx context.Context, url string, opts LoadOptions) (io.ReadCloser, error) {
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, err
	}

	log.Debug().Str("url", url).Dur("timeout", timeout).Msg("Fetching remote dataset")
	resp, err := client.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to fetch dataset: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("dataset fetch returned status %d", resp.StatusCode)
	}
	return &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}

func isSnapshot(source string) bool {
	s := strings.ToLower(source)
	if i := strings.IndexAny(s, "?#"); i >= 0 && strings.Contains(s, "://") {
		s = s[:i]
	}
	return strings.HasSuffix(s, ".jsonl")
}

// ReadCSV normalizes every row of a headered CSV stream.
func ReadCSV(r io.Reader, cols Columns) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	records := []Record{}
	line := 1
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(fields) {
				row[name] = fields[i]
			} else {
				row[name] = ""
			}
		}
		records = append(records, Normalize(row, cols))
	}
	return records, nil
}
