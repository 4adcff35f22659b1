package sedeval

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadEventList parses an event list with one event per line:
//
//	onset<sep>offset<sep>label
//
// where sep is a tab, a comma or a run of spaces. A four-field line with a
// leading filename is accepted and the filename ignored. Blank lines are
// skipped. Errors are *ParseError values wrapping ErrMalformedEvent.
func ReadEventList(r io.Reader, recordingID string) (EventList, error) {
	scanner := bufio.NewScanner(r)
	var events []Event
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		e, err := parseEventLine(line)
		if err != nil {
			return EventList{}, &ParseError{Recording: recordingID, Line: lineNo, Err: err}
		}
		if err := e.Validate(); err != nil {
			return EventList{}, &ParseError{Recording: recordingID, Line: lineNo, Err: err}
		}
		events = append(events, e)
	}

	if err := scanner.Err(); err != nil {
		return EventList{}, fmt.Errorf("scan %s: %w", recordingID, err)
	}

	sortEvents(events)
	return EventList{RecordingID: recordingID, Events: events}, nil
}

func parseEventLine(line string) (Event, error) {
	fields := splitFields(line)
	switch len(fields) {
	case 3:
	case 4:
		fields = fields[1:]
	default:
		return Event{}, fmt.Errorf("%w: want 3 fields (onset, offset, label), got %d", ErrMalformedEvent, len(fields))
	}

	onset, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Event{}, fmt.Errorf("%w: onset %q is not a number", ErrMalformedEvent, fields[0])
	}
	offset, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Event{}, fmt.Errorf("%w: offset %q is not a number", ErrMalformedEvent, fields[1])
	}

	return Event{Onset: onset, Offset: offset, Label: fields[2]}, nil
}

func splitFields(line string) []string {
	var fields []string
	switch {
	case strings.Contains(line, "\t"):
		fields = strings.Split(line, "\t")
	case strings.Contains(line, ","):
		fields = strings.Split(line, ",")
	default:
		return strings.Fields(line)
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// LoadEventList reads an event list file. The recording ID is the file name
// without its extension.
func LoadEventList(path string) (EventList, error) {
	f, err := os.Open(path)
	if err != nil {
		return EventList{}, fmt.Errorf("open event list: %w", err)
	}
	defer func() { _ = f.Close() }() // read-only

	return ReadEventList(f, RecordingID(path))
}

// RecordingID derives a recording identifier from a file path.
func RecordingID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// WriteEventList writes list in the tab-separated form ReadEventList reads.
func WriteEventList(w io.Writer, list EventList) error {
	bw := bufio.NewWriter(w)
	for _, e := range list.Events {
		_, err := fmt.Fprintf(bw, "%s\t%s\t%s\n",
			strconv.FormatFloat(e.Onset, 'f', -1, 64),
			strconv.FormatFloat(e.Offset, 'f', -1, 64),
			e.Label)
		if err != nil {
			return fmt.Errorf("write event: %w", err)
		}
	}
	return bw.Flush()
}
