package logging

import (
	"io"

	"go.uber.org/multierr"
)

// fanoutWriter writes every log line to all of its writers. A failing writer
// does not stop the others; the errors are combined.
type fanoutWriter struct {
	writers []io.Writer
}

func newFanoutWriter(writers ...io.Writer) *fanoutWriter {
	return &fanoutWriter{writers: writers}
}

func (fw *fanoutWriter) Write(p []byte) (int, error) {
	var err error
	written := 0
	for _, w := range fw.writers {
		n, werr := w.Write(p)
		if werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		if n > written {
			written = n
		}
	}
	return written, err
}
