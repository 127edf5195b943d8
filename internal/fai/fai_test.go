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
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const testFasta = ">chr1 first contig\n" +
	"ACGTACGTACGTACGTACGTACGTACGTACGT\n" +
	"ACGTACGTACGTACGTACGTACGTACGTACGT\n" +
	">chr2\n" +
	"GGGGCCCCGGGGCCCCGGGGCCCCGGGGCCCC\n" +
	">chrM\n" +
	"TTTTAAAATTTTAAAA\n"

var testRecords = []Record{
	{Name: "chr1", Length: 64, Offset: 19, LineBases: 32, LineWidth: 33},
	{Name: "chr2", Length: 32, Offset: 91, LineBases: 32, LineWidth: 33},
	{Name: "chrM", Length: 16, Offset: 130, LineBases: 16, LineWidth: 17},
}

func TestScan(t *testing.T) {
	idx, err := Scan(strings.NewReader(testFasta), false)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if got, want := idx.Records(), testRecords; !reflect.DeepEqual(got, want) {
		t.Errorf("Wrong records:\ngot  %+v\nwant %+v", got, want)
	}
	if got, want := idx.Names(), []string{"chr1", "chr2", "chrM"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Wrong name order: got %v, want %v", got, want)
	}
}

func TestScanFullHeader(t *testing.T) {
	idx, err := Scan(strings.NewReader(testFasta), true)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if !idx.Has("chr1 first contig") {
		t.Errorf("Full header name missing; indexed names are %v", idx.Names())
	}
	if idx.Has("chr1") {
		t.Error("Token name present despite fullHeader")
	}
}

func TestScanEmptyInput(t *testing.T) {
	idx, err := Scan(strings.NewReader(""), false)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if idx.Len() != 0 {
		t.Errorf("Wrong record count: got %d, want 0", idx.Len())
	}
}

func TestScanCountsHeaderBytesNotRunes(t *testing.T) {
	// The header contains a two-byte character; the offset must count
	// bytes for the extraction arithmetic to land on the right base.
	idx, err := Scan(strings.NewReader(">séq\nACGT\n"), false)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	r, ok := idx.Get("séq")
	if !ok {
		t.Fatalf("Sequence missing; indexed names are %v", idx.Names())
	}
	if got, want := r.Offset, int64(6); got != want {
		t.Errorf("Wrong offset: got %d, want %d", got, want)
	}
	if got, want := r.Length, int64(4); got != want {
		t.Errorf("Wrong length: got %d, want %d", got, want)
	}
}

func TestByteRange(t *testing.T) {
	chr1 := testRecords[0]
	testCases := []struct {
		name               string
		start, end         int64
		wantStart, wantEnd int64
	}{
		{"start of the first line", 1, 8, 19, 27},
		{"span across the line boundary", 30, 35, 48, 55},
		{"full sequence", 1, 64, 19, 84},
		{"single base on the second line", 33, 33, 52, 53},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gotStart, gotEnd := chr1.ByteRange(tc.start, tc.end)
			if gotStart != tc.wantStart || gotEnd != tc.wantEnd {
				t.Errorf("Wrong byte range: got [%d,%d), want [%d,%d)",
					gotStart, gotEnd, tc.wantStart, tc.wantEnd)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	idx, err := Scan(strings.NewReader(testFasta), false)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	var buf bytes.Buffer
	if _, err := idx.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("Serialized index lacks a trailing newline")
	}

	loaded, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got, want := loaded.Records(), idx.Records(); !reflect.DeepEqual(got, want) {
		t.Errorf("Round trip changed records:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestReadRejectsMalformedIndex(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		message string
	}{
		{"four fields", "chr1\t64\t19\t32\n", "expected 5 tab-separated fields, got 4"},
		{"six fields", "chr1\t64\t19\t32\t33\tx\n", "got 6"},
		{"non-numeric length", "chr1\tx\t19\t32\t33\n", "parsing length"},
		{"empty name", "\t64\t19\t32\t33\n", "empty field 1"},
		{"zero length", "chr1\t0\t19\t32\t33\n", "length 0 is less than 1"},
		{"negative offset", "chr1\t64\t-1\t32\t33\n", "offset -1 is negative"},
		{"linewidth below linebases", "chr1\t64\t19\t32\t31\n", "linewidth 31 is less than linebases 32"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tc.input))
			if err == nil {
				t.Fatal("Read succeeded, want error")
			}
			if !strings.Contains(err.Error(), tc.message) {
				t.Errorf("Error %q does not contain %q", err, tc.message)
			}
		})
	}
}

func TestReadAllowsEqualLineWidth(t *testing.T) {
	// linewidth == linebases is physically impossible (it leaves no room
	// for a terminator) but the historical load rule is >=, not >.
	idx, err := Read(strings.NewReader("chr1\t64\t19\t32\t32\n"))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if idx.Len() != 1 {
		t.Errorf("Wrong record count: got %d, want 1", idx.Len())
	}
}

func TestReadSkipsBlankLines(t *testing.T) {
	idx, err := Read(strings.NewReader("chr1\t64\t19\t32\t33\n\nchr2\t32\t91\t32\t33\n"))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got, want := idx.Names(), []string{"chr1", "chr2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Wrong names: got %v, want %v", got, want)
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fasta := filepath.Join(dir, "test.fa")
	if err := os.WriteFile(fasta, []byte(testFasta), 0644); err != nil {
		t.Fatalf("Failed to write test FASTA: %v", err)
	}

	idx, err := ScanFile(fasta, false)
	if err != nil {
		t.Fatalf("ScanFile failed: %v", err)
	}
	if err := idx.WriteFile(fasta + ".fai"); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	loaded, err := ReadFile(fasta + ".fai")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if got, want := loaded.Records(), idx.Records(); !reflect.DeepEqual(got, want) {
		t.Errorf("File round trip changed records:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestScanFileMissing(t *testing.T) {
	_, err := ScanFile(filepath.Join(t.TempDir(), "missing.fa"), false)
	if err == nil {
		t.Fatal("ScanFile succeeded on a missing file")
	}
	if !strings.Contains(err.Error(), "missing.fa") {
		t.Errorf("Error %q does not name the path", err)
	}
}
