package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mash-protocol/tpa2016-go/pkg/log"
)

// ErrSameFile is returned when the filter output would overwrite its input.
var ErrSameFile = errors.New("output is the input trace file")

// RunFilter copies the matching events of path into output, replacing any
// existing content of output.
func RunFilter(path, output string, opts FilterOptions, w io.Writer) error {
	filter, err := opts.Filter()
	if err != nil {
		return err
	}

	in, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	if out, err := os.Stat(output); err == nil && os.SameFile(in, out) {
		return fmt.Errorf("%s: %w", output, ErrSameFile)
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	logger, err := log.CreateFileLogger(output)
	if err != nil {
		return fmt.Errorf("failed to create output trace: %w", err)
	}
	defer logger.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		logger.Log(event)
	}

	written, dropped := logger.Stats()
	fmt.Fprintf(w, "Filtered %d events to %s\n", written, output)
	if dropped > 0 {
		fmt.Fprintf(w, "Dropped %d events that failed to encode\n", dropped)
	}
	return nil
}
