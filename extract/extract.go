// Copyright 2019 the faidx authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package extract serves coordinate-addressed sub-sequences from indexed
// FASTA files.  An Extractor owns one immutable index and reads only the
// byte span a request needs; it never rereads the whole file after the
// index exists.
package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/genomicsio/faidx/genomics"
	"github.com/genomicsio/faidx/internal/dna"
	"github.com/genomicsio/faidx/internal/fai"
	"github.com/genomicsio/faidx/internal/sniff"
	"github.com/genomicsio/faidx/sources/file"
)

// Object is an interface to the storage holding the FASTA bytes.
type Object interface {
	// NewRangeReader returns a reader over the byte range
	// [offset, offset+length).  Length of -1 means to capture everything
	// until the end.
	NewRangeReader(ctx context.Context, offset, length int64) (io.ReadCloser, error)
}

// Record is one extracted (sub-)sequence.
type Record struct {
	ID       string `json:"id"`
	Sequence string `json:"sequence"`
	Length   int    `json:"length"`
}

// Options configures how an Extractor is opened.
type Options struct {
	// FullHeader keys the index by the entire header line rather than its
	// first whitespace-delimited token.
	FullHeader bool
	// UpdateIndex forces a rescan of the FASTA file even when an index
	// file already exists.
	UpdateIndex bool
}

// Extractor answers region queries against a single indexed FASTA object.
// The index is immutable once the Extractor exists, so concurrent calls to
// Extract are safe as long as the underlying object supports concurrent
// range reads.
type Extractor struct {
	index  *fai.Index
	object Object
}

// NewExtractor returns an Extractor that reads sequence bytes from object
// using the provided index.  The caller must not modify the index
// afterwards.
func NewExtractor(index *fai.Index, object Object) *Extractor {
	return &Extractor{index: index, object: object}
}

// Open prepares the FASTA file at path for extraction.  Compressed files
// are rejected: byte-offset random access is meaningless through a stream
// compressor.  An existing <path>.fai index is loaded unless UpdateIndex is
// set; otherwise the file is scanned and the index written back next to it.
func Open(path string, opts Options) (*Extractor, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, newParseError("opening FASTA", err)
	}

	if c := sniff.Classify(path); c.Format != sniff.None && c.Confidence > 0.5 {
		return nil, newUnsupportedFormatError(fmt.Errorf(
			"%s is %s-compressed and cannot be accessed by byte offset; decompress it first (%s)",
			path, c.Format, c.Remediation(path)))
	}

	indexPath := path + ".fai"
	var (
		index *fai.Index
		err   error
	)
	if _, statErr := os.Stat(indexPath); statErr == nil && !opts.UpdateIndex {
		index, err = fai.ReadFile(indexPath)
		if err != nil {
			return nil, newParseError("loading index", err)
		}
	} else {
		index, err = fai.ScanFile(path, opts.FullHeader)
		if err != nil {
			return nil, newParseError("building index", err)
		}
		if err := index.WriteFile(indexPath); err != nil {
			return nil, newParseError("writing index", err)
		}
	}

	return NewExtractor(index, file.NewObject(path)), nil
}

// Index returns the extractor's index.  The caller must treat it as
// read-only.
func (e *Extractor) Index() *fai.Index {
	return e.index
}

// Extract resolves a region string and returns the addressed sub-sequence.
// Supplying the endpoints in descending order yields the reverse complement
// of the ascending range.
func (e *Extractor) Extract(ctx context.Context, region string) (Record, error) {
	parsed := genomics.ParseRegion(region)

	record, ok := e.index.Get(parsed.Name)
	if !ok {
		return Record{}, newNotFoundError(fmt.Errorf(
			"unknown sequence %q; known sequences include %s", parsed.Name, e.sampleNames()))
	}

	resolved, err := genomics.Resolve(parsed.Spec, record.Length)
	if err != nil {
		return Record{}, newValidationError(fmt.Sprintf("region %q", region), err)
	}

	startByte, endByte := record.ByteRange(resolved.Start, resolved.End)
	raw, err := e.readRange(ctx, startByte, endByte-startByte)
	if err != nil {
		return Record{}, newParseError(fmt.Sprintf("reading %q", region), err)
	}

	seq := stripTerminators(raw)
	if resolved.ReverseComplement {
		seq = dna.ReverseComplement(seq)
	}

	return Record{
		ID:       resultID(parsed, record, resolved),
		Sequence: string(seq),
		Length:   len(seq),
	}, nil
}

func (e *Extractor) readRange(ctx context.Context, offset, length int64) ([]byte, error) {
	r, err := e.object.NewRangeReader(ctx, offset, length)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// resultID reproduces the historical identifier contract: a whole-sequence
// forward extraction is identified by the bare record name; an explicit
// two-sided range or a reverse-complement request keeps the caller's region
// string verbatim; every other form is rewritten to the canonical
// "name:start-end".
func resultID(parsed genomics.Region, record fai.Record, resolved genomics.Resolved) string {
	if resolved.Start == 1 && resolved.End == record.Length && !resolved.ReverseComplement {
		return record.Name
	}
	switch {
	case resolved.ReverseComplement:
		return parsed.Raw
	case parsed.Spec.Kind == genomics.Range, parsed.Spec.Kind == genomics.NegRange:
		return parsed.Raw
	}
	return fmt.Sprintf("%s:%d-%d", parsed.Name, resolved.Start, resolved.End)
}

func (e *Extractor) sampleNames() string {
	const sampleSize = 5
	names := e.index.Names()
	suffix := ""
	if len(names) > sampleSize {
		names = names[:sampleSize]
		suffix = ", ..."
	}
	return strings.Join(names, ", ") + suffix
}

// stripTerminators removes line terminators from a raw byte span, tolerating
// both LF and CRLF line endings.
func stripTerminators(raw []byte) []byte {
	out := raw[:0]
	for _, b := range raw {
		if b == '\n' || b == '\r' {
			continue
		}
		out = append(out, b)
	}
	return out
}
