// Package runlog records the artifacts each command produced.
package runlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileName is the log file created inside the logs directory.
const FileName = "run-log.csv"

// Header is the CSV header for run-log.csv.
const Header = "timestamp,command,artifact,details"

const (
	numFields    = 4
	colTimestamp = 0
	colCommand   = 1
	colArtifact  = 2
	colDetails   = 3
)

// Entry is one produced artifact.
type Entry struct {
	Timestamp time.Time
	Command   string
	Artifact  string
	Details   string
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colCommand] = e.Command
	row[colArtifact] = e.Artifact
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	return Entry{
		Timestamp: ts,
		Command:   record[colCommand],
		Artifact:  record[colArtifact],
		Details:   record[colDetails],
	}, nil
}

// Append writes entries to <dir>/run-log.csv, creating the file and header
// if needed.
func Append(dir string, entries []Entry) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(dir, FileName)
	needsHeader := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <dir>/run-log.csv, or nothing if the file
// does not exist.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Recorder collects entries for one command run and appends them in one go.
type Recorder struct {
	Command string
	Now     func() time.Time
	entries []Entry
}

// NewRecorder returns a Recorder stamping entries with the current time.
func NewRecorder(command string) *Recorder {
	return &Recorder{Command: command, Now: time.Now}
}

// Add records one artifact.
func (r *Recorder) Add(artifact, details string) {
	r.entries = append(r.entries, Entry{
		Timestamp: r.Now(),
		Command:   r.Command,
		Artifact:  artifact,
		Details:   details,
	})
}

// Entries returns what has been recorded so far.
func (r *Recorder) Entries() []Entry {
	return r.entries
}

// Flush appends the recorded entries to the log in dir.
func (r *Recorder) Flush(dir string) error {
	if len(r.entries) == 0 {
		return nil
	}
	if err := Append(dir, r.entries); err != nil {
		return err
	}
	r.entries = nil
	return nil
}
