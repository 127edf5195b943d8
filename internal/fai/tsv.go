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

package fai

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteTo writes the index in the samtools .fai format: one record per line,
// five tab-separated columns, trailing newline, no header row.
func (idx *Index) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, r := range idx.records {
		n, err := fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", r.Name, r.Length, r.Offset, r.LineBases, r.LineWidth)
		total += int64(n)
		if err != nil {
			return total, fmt.Errorf("writing index record %q: %v", r.Name, err)
		}
	}
	return total, nil
}

// Read parses a .fai file from in and returns the index it describes.  Every
// non-blank line must contain exactly five tab-separated fields; the four
// numeric fields must parse and the resulting record must satisfy the format
// invariants (length >= 1, offset >= 0, linebases >= 1 and
// linewidth >= linebases).
func Read(in io.Reader) (*Index, error) {
	content, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("reading index: %v", err)
	}

	idx := NewIndex()
	for i, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		r, err := parseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("index line %d: %v", i+1, err)
		}
		idx.add(r)
	}
	return idx, nil
}

func parseRecord(line string) (Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 5 {
		return Record{}, fmt.Errorf("expected 5 tab-separated fields, got %d in %q", len(fields), line)
	}
	for i, f := range fields {
		if f == "" {
			return Record{}, fmt.Errorf("empty field %d in %q", i+1, line)
		}
	}

	r := Record{Name: fields[0]}
	for _, column := range []struct {
		name  string
		value string
		dst   *int64
	}{
		{"length", fields[1], &r.Length},
		{"offset", fields[2], &r.Offset},
		{"linebases", fields[3], &r.LineBases},
		{"linewidth", fields[4], &r.LineWidth},
	} {
		n, err := strconv.ParseInt(column.value, 10, 64)
		if err != nil {
			return Record{}, fmt.Errorf("parsing %s %q in %q: %v", column.name, column.value, line, err)
		}
		*column.dst = n
	}

	if err := r.validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}
