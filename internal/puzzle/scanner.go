package puzzle

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Scanner streams puzzle records from a CSV source one row at a time,
// skipping and counting malformed rows. Usage mirrors bufio.Scanner:
//
//	for s.Scan() {
//	    rec := s.Record()
//	    ...
//	}
//	if err := s.Err(); err != nil { ... }
type Scanner struct {
	reader    *csv.Reader
	closers   []io.Closer
	idx       columnIndex
	rec       Record
	err       error
	malformed int64
}

// Open opens a puzzle CSV by path, transparently decompressing .zst files.
func Open(path string) (*Scanner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var src io.Reader = f
	closers := []io.Closer{f}
	if isZstFile(path) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("create zstd decoder: %w", err)
		}
		src = dec
		closers = append(closers, closerFunc(func() error { dec.Close(); return nil }))
	}

	s, err := NewScanner(src)
	if err != nil {
		for _, c := range closers {
			c.Close()
		}
		return nil, err
	}
	s.closers = closers
	return s, nil
}

// NewScanner reads and validates the header row, returning a scanner over
// the remaining rows. The caller owns closing the underlying reader.
func NewScanner(r io.Reader) (*Scanner, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty csv source")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	idx, err := indexColumns(header)
	if err != nil {
		return nil, err
	}
	return &Scanner{reader: cr, idx: idx}, nil
}

// Scan advances to the next well-formed record. It returns false at end of
// stream or on a fatal read error; check Err to tell the two apart.
func (s *Scanner) Scan() bool {
	for {
		row, err := s.reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				// Malformed quoting on a single row; skip it.
				s.malformed++
				continue
			}
			s.err = fmt.Errorf("read csv row: %w", err)
			return false
		}
		rec, err := decodeRow(row, s.idx)
		if err != nil {
			s.malformed++
			continue
		}
		s.rec = rec
		return true
	}
}

// Record returns the record produced by the last successful Scan.
func (s *Scanner) Record() Record { return s.rec }

// Err returns the fatal read error that stopped the scan, if any.
func (s *Scanner) Err() error { return s.err }

// Malformed returns the number of rows skipped as undecodable.
func (s *Scanner) Malformed() int64 { return s.malformed }

// Close releases the underlying source, if the scanner owns one.
func (s *Scanner) Close() error {
	var err error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if cerr := s.closers[i].Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	s.closers = nil
	return err
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func isZstFile(name string) bool {
	return filepath.Ext(name) == ".zst"
}
