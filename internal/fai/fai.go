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

// Package fai implements the samtools FASTA index (.fai) format: building an
// index from FASTA text, reading and writing the on-disk five-column form,
// and mapping base coordinates to byte offsets in the indexed file.
package fai

import (
	"fmt"
)

// Record describes one indexed sequence.  The five fields correspond, in
// order, to the five columns of a .fai file.
type Record struct {
	// Name is the sequence identifier and the unique lookup key.
	Name string
	// Length is the total number of bases in the sequence.
	Length int64
	// Offset is the byte offset of the first base in the FASTA file.
	Offset int64
	// LineBases is the number of bases on each full sequence line.
	LineBases int64
	// LineWidth is the number of bytes each full sequence line occupies,
	// including the line terminator.
	LineWidth int64
}

// ByteRange maps the 1-based inclusive base range [start, end] to the
// half-open byte interval [startByte, endByte) in the indexed file.  The
// result is only meaningful when every sequence line of the record except
// possibly the last has exactly LineBases bases and LineWidth bytes.
func (r Record) ByteRange(start, end int64) (int64, int64) {
	start0, end0 := start-1, end-1
	startByte := r.Offset + (start0/r.LineBases)*r.LineWidth + start0%r.LineBases
	endByte := r.Offset + (end0/r.LineBases)*r.LineWidth + end0%r.LineBases + 1
	return startByte, endByte
}

func (r Record) validate() error {
	if r.Name == "" {
		return fmt.Errorf("empty sequence name in record %+v", r)
	}
	if r.Length < 1 {
		return fmt.Errorf("record %q: length %d is less than 1", r.Name, r.Length)
	}
	if r.Offset < 0 {
		return fmt.Errorf("record %q: offset %d is negative", r.Name, r.Offset)
	}
	if r.LineBases < 1 {
		return fmt.Errorf("record %q: linebases %d is less than 1", r.Name, r.LineBases)
	}
	if r.LineWidth < r.LineBases {
		return fmt.Errorf("record %q: linewidth %d is less than linebases %d", r.Name, r.LineWidth, r.LineBases)
	}
	return nil
}

// String renders the record as one .fai line (without the terminator).
func (r Record) String() string {
	return fmt.Sprintf("%s\t%d\t%d\t%d\t%d", r.Name, r.Length, r.Offset, r.LineBases, r.LineWidth)
}

// Index is an insertion-ordered mapping from sequence name to Record.
// Lookup is by name; iteration follows the order records were added, which
// matches first-seen order when scanning FASTA and line order when loading a
// .fai file.
type Index struct {
	records []Record
	byName  map[string]int
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{byName: make(map[string]int)}
}

func (idx *Index) add(r Record) {
	if i, ok := idx.byName[r.Name]; ok {
		idx.records[i] = r
		return
	}
	idx.byName[r.Name] = len(idx.records)
	idx.records = append(idx.records, r)
}

// Get returns the record for name.
func (idx *Index) Get(name string) (Record, bool) {
	i, ok := idx.byName[name]
	if !ok {
		return Record{}, false
	}
	return idx.records[i], true
}

// Has reports whether name is indexed.
func (idx *Index) Has(name string) bool {
	_, ok := idx.byName[name]
	return ok
}

// Len returns the number of indexed sequences.
func (idx *Index) Len() int {
	return len(idx.records)
}

// Names returns the sequence names in index order.
func (idx *Index) Names() []string {
	names := make([]string, len(idx.records))
	for i, r := range idx.records {
		names[i] = r.Name
	}
	return names
}

// Records returns the records in index order.  The returned slice is shared
// with the index and must not be modified.
func (idx *Index) Records() []Record {
	return idx.records
}
