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
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"
)

// Scan reads FASTA text from in and builds an index for it.  Offsets and
// line widths are measured in encoded bytes while lengths and line bases are
// measured in characters, so files with non-ASCII headers index correctly.
// When fullHeader is set the entire header line (after the marker) becomes
// the record name; otherwise the name is the first whitespace-delimited
// token.  Empty input yields an empty index.
func Scan(in io.Reader, fullHeader bool) (*Index, error) {
	content, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("reading FASTA: %v", err)
	}

	idx := NewIndex()

	var (
		open      Record
		haveOpen  bool
		bases     int64
		firstLine bool
		offset    int64
	)
	flush := func() {
		if !haveOpen {
			return
		}
		open.Length = bases
		idx.add(open)
		haveOpen = false
	}

	lines := bytes.Split(content, []byte{'\n'})
	if n := len(lines); n > 0 && len(lines[n-1]) == 0 {
		lines = lines[:n-1]
	}
	for _, line := range lines {
		if len(line) == 0 {
			offset++
			continue
		}
		if line[0] == '>' {
			flush()
			offset += int64(len(line)) + 1
			open = Record{Name: headerName(bytes.TrimSuffix(line, []byte{'\r'})[1:], fullHeader), Offset: offset}
			haveOpen = true
			bases = 0
			firstLine = true
			continue
		}
		if haveOpen {
			// A trailing CR belongs to the line terminator, not the sequence.
			chars := int64(utf8.RuneCount(bytes.TrimSuffix(line, []byte{'\r'})))
			bases += chars
			if firstLine {
				open.LineBases = chars
				open.LineWidth = int64(len(line)) + 1
				firstLine = false
			}
		}
		offset += int64(len(line)) + 1
	}
	flush()

	return idx, nil
}

func headerName(header []byte, fullHeader bool) string {
	if fullHeader {
		return string(header)
	}
	if fields := bytes.Fields(header); len(fields) > 0 {
		return string(fields[0])
	}
	return ""
}
