package workouts

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

const DefaultNDJSONBatchSize = 50

// maxNDJSONLine bounds a single record line; geometries of long rides run into megabytes
const maxNDJSONLine = 64 * 1024 * 1024

type NDJSONMeta struct {
	Total int `json:"total"`
}

type ndjsonMetaLine struct {
	Meta *NDJSONMeta `json:"_meta"`
}

// PublicRecords drops flagged and incomplete records
func PublicRecords(records []*CustomWorkout) []*CustomWorkout {
	public := make([]*CustomWorkout, 0, len(records))
	for _, r := range records {
		if r == nil || !r.Public() {
			continue
		}
		public = append(public, r)
	}
	return public
}

// WriteNDJSON writes the meta line followed by one public record per line.
// It returns the number of records written.
func WriteNDJSON(w io.Writer, records []*CustomWorkout) (int, error) {
	public := PublicRecords(records)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ndjsonMetaLine{Meta: &NDJSONMeta{Total: len(public)}}); err != nil {
		return 0, fmt.Errorf("write meta line: %w", err)
	}

	for i, r := range public {
		if err := enc.Encode(r); err != nil {
			return i, fmt.Errorf("write record %s: %w", r.ID, err)
		}
	}

	return len(public), nil
}

// BatchSource delivers records batch by batch to fn, stopping at the first error fn returns
type BatchSource func(fn func(batch []*CustomWorkout) error) error

// StreamNDJSON writes the meta line and then every public record delivered by source
func StreamNDJSON(w io.Writer, total int, source BatchSource) (int, error) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ndjsonMetaLine{Meta: &NDJSONMeta{Total: total}}); err != nil {
		return 0, fmt.Errorf("write meta line: %w", err)
	}

	written := 0
	err := source(func(batch []*CustomWorkout) error {
		for _, r := range PublicRecords(batch) {
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("write record %s: %w", r.ID, err)
			}
			written++
		}
		if f, ok := w.(interface{ Flush() }); ok {
			f.Flush()
		}
		return nil
	})

	return written, err
}

// ReadNDJSON reads a dataset written by WriteNDJSON, delivering records in batches of batchSize.
// onMeta is called once if the stream starts with a meta line. Malformed lines are logged and skipped.
func ReadNDJSON(
	r io.Reader,
	batchSize int,
	onMeta func(NDJSONMeta),
	onBatch func([]*CustomWorkout) error,
) (int, error) {
	if batchSize <= 0 {
		batchSize = DefaultNDJSONBatchSize
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxNDJSONLine)

	read := 0
	lineNum := 0
	batch := make([]*CustomWorkout, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := onBatch(batch); err != nil {
			return err
		}
		read += len(batch)
		batch = make([]*CustomWorkout, 0, batchSize)
		return nil
	}

	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		if lineNum == 1 {
			var meta ndjsonMetaLine
			if err := json.Unmarshal(line, &meta); err == nil && meta.Meta != nil {
				if onMeta != nil {
					onMeta(*meta.Meta)
				}
				continue
			}
		}

		record := &CustomWorkout{}
		if err := json.Unmarshal(line, record); err != nil {
			log.Warnf("ndjson: skipping malformed line %d: %s", lineNum, err)
			continue
		}
		if record.ID == "" {
			log.Warnf("ndjson: skipping line %d without id", lineNum)
			continue
		}

		batch = append(batch, record)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return read, err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return read, fmt.Errorf("ndjson line %d exceeds %d bytes", lineNum+1, maxNDJSONLine)
		}
		return read, err
	}

	return read, flush()
}
