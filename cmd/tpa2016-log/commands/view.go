package commands

import (
	"fmt"
	"io"

	"github.com/mash-protocol/tpa2016-go/pkg/log"
	"github.com/mash-protocol/tpa2016-go/pkg/tpa2016"
)

// RunView prints every matching event in human-readable form.
func RunView(path string, opts FilterOptions, w io.Writer) error {
	filter, err := opts.Filter()
	if err != nil {
		return err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(w, event)
	}
}

// formatEvent writes one line per transaction:
// timestamp [sess:id] DIR REGISTER(addr) = value  operation  error
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [sess:%s] %-5s %-9s(0x%02X) = 0x%02X %08b  %s",
		ts,
		shortenSessionID(event.SessionID),
		event.Direction,
		tpa2016.RegisterName(event.Register),
		event.Register,
		event.Value,
		event.Value,
		event.Operation,
	)
	if event.Failed() {
		fmt.Fprintf(w, "  ERROR: %s", event.Error)
	}
	fmt.Fprintln(w)
}
