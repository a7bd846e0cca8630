package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mash-protocol/tpa2016-go/pkg/log"
	"github.com/mash-protocol/tpa2016-go/pkg/tpa2016"
)

// RunExport exports the trace file to jsonl or csv. An empty output writes
// to stdout.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

// jsonEvent is the jsonl row layout.
type jsonEvent struct {
	Timestamp string `json:"timestamp"`
	SessionID string `json:"session_id,omitempty"`
	Direction string `json:"direction"`
	Register  string `json:"register"`
	Address   uint8  `json:"address"`
	Value     uint8  `json:"value"`
	Operation string `json:"operation,omitempty"`
	Error     string `json:"error,omitempty"`
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		row := jsonEvent{
			Timestamp: event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			SessionID: event.SessionID,
			Direction: event.Direction.String(),
			Register:  tpa2016.RegisterName(event.Register),
			Address:   event.Register,
			Value:     event.Value,
			Operation: event.Operation,
			Error:     event.Error,
		}
		if err := encoder.Encode(row); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "session_id", "direction", "register", "address", "value", "operation", "error"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		row := []string{
			event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			event.SessionID,
			event.Direction.String(),
			tpa2016.RegisterName(event.Register),
			fmt.Sprintf("0x%02X", event.Register),
			strconv.Itoa(int(event.Value)),
			event.Operation,
			event.Error,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
}
