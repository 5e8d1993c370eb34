// Package input reads provisioning records from delimited files. The
// reader is deliberately tolerant: real-world exports arrive with BOMs,
// stray quoting, short rows and trailing junk, and a malformed row should
// cost one warning, not the run.
package input

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// FieldCount is the positional width every yielded record is normalized
// to: short rows are padded with blanks, long rows truncated.
const FieldCount = 7

// Reader streams positional records from a CSV source. It satisfies the
// engine's record source contract: Next returns io.EOF at end of input.
type Reader struct {
	csv       *csv.Reader
	log       zerolog.Logger
	row       int
	headerCut bool
}

// NewReader wraps a raw byte stream. The stream may be UTF-8 with or
// without a BOM, or UTF-16 with a BOM; everything is decoded to UTF-8
// before parsing.
func NewReader(r io.Reader, logger zerolog.Logger) *Reader {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	c := csv.NewReader(decoded)
	// Rows are padded and truncated here, not rejected by the parser.
	c.FieldsPerRecord = -1
	c.LazyQuotes = true

	return &Reader{csv: c, log: logger}
}

// Next returns the next data record, padded or truncated to FieldCount
// fields. The first row of the stream is treated as a header and
// discarded. Rows the parser cannot read are logged and skipped; io.EOF
// signals a cleanly exhausted source.
func (r *Reader) Next() ([]string, error) {
	for {
		row, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		r.row++
		if err != nil {
			// Parse errors cost one row; transport errors end the stream.
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				r.log.Warn().Int("row", r.row).Err(err).Msg("skipping malformed row")
				continue
			}
			return nil, err
		}

		if !r.headerCut {
			r.headerCut = true
			continue
		}

		return pad(row), nil
	}
}

// ReadAll drains the source into memory. It is a convenience for callers
// that want the full record set up front; the engine streams via Next
// instead.
func (r *Reader) ReadAll() ([][]string, error) {
	var records [][]string
	for {
		fields, err := r.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		records = append(records, fields)
	}
}

// pad normalizes a row to exactly FieldCount fields.
func pad(row []string) []string {
	if len(row) == FieldCount {
		return row
	}
	if len(row) > FieldCount {
		return row[:FieldCount]
	}
	padded := make([]string, FieldCount)
	copy(padded, row)
	return padded
}
