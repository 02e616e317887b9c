// Package report formats the outcome of running calc files.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iancoleman/orderedmap"
)

// Format selects how reports are written.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
)

// ParseFormat validates s as a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case Text, JSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text or json)", s)
	}
}

// Report is the outcome of running one file.
type Report struct {
	File   string
	Output []string
	Err    error
}

// Failed reports whether the run ended with an error.
func (r *Report) Failed() bool {
	return r.Err != nil
}

// Map builds the JSON form of r. Keys keep the order file, output, error.
func (r *Report) Map() *orderedmap.OrderedMap {
	m := orderedmap.New()
	m.SetEscapeHTML(false)
	m.Set("file", r.File)
	output := r.Output
	if output == nil {
		output = []string{}
	}
	m.Set("output", output)
	if r.Err != nil {
		m.Set("error", r.Err.Error())
	} else {
		m.Set("error", nil)
	}
	return m
}

// Writer writes reports in one Format. In Text format printed values go to
// the output stream and errors to the error stream; JSON writes one object
// per line to the output stream.
type Writer struct {
	format Format
	out    io.Writer
	errOut io.Writer
}

// NewWriter returns a Writer for format.
func NewWriter(format Format, out, errOut io.Writer) *Writer {
	return &Writer{format: format, out: out, errOut: errOut}
}

// Write emits r.
func (w *Writer) Write(r *Report) error {
	switch w.format {
	case JSON:
		enc := json.NewEncoder(w.out)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(r.Map()); err != nil {
			return fmt.Errorf("encoding report for %s: %w", r.File, err)
		}
	default:
		for _, line := range r.Output {
			if _, err := fmt.Fprintln(w.out, line); err != nil {
				return err
			}
		}
		if r.Err != nil {
			if _, err := fmt.Fprintln(w.errOut, r.Err); err != nil {
				return err
			}
		}
	}
	return nil
}
