package incident

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
)

// ReadSnapshot reads normalized records from a JSONL stream. Lines that do
// not decode are skipped.
func ReadSnapshot(r io.Reader) ([]Record, error) {
	records := []Record{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			log.Warn().Err(err).Int("line", line).Msg("Skipping invalid JSON line in snapshot")
			continue
		}
		if rec.Weapon == "" {
			rec.Weapon = NoWeapon
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading snapshot: %w", err)
	}
	return records, nil
}

// WriteSnapshot writes one JSON record per line.
func WriteSnapshot(w io.Writer, records []Record) error {
	writer := bufio.NewWriter(w)
	encoder := json.NewEncoder(writer)
	for _, r := range records {
		if err := encoder.Encode(r); err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
	}
	return writer.Flush()
}

// SaveSnapshot writes records to path through a temp file and an atomic
// rename, so readers never observe a partial snapshot.
func SaveSnapshot(path string, records []Record) error {
	tmpPath := path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot file: %w", err)
	}

	if err := WriteSnapshot(file, records); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return err
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename snapshot file: %w", err)
	}

	log.Info().Str("path", path).Int("count", len(records)).Msg("Snapshot saved")
	return nil
}
