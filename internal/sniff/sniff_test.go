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

package sniff

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func gzipped(t *testing.T, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to compress: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close gzip writer: %v", err)
	}
	return buf.Bytes()
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		name       string
		file       string
		content    []byte
		format     Format
		confidence float64
	}{
		{"plain FASTA", "test.fa", []byte(">chr1\nACGT\n"), None, 0},
		{"gzip magic", "test.fa.gz", nil, Gzip, 1},
		{"bzip2 magic", "test.fa.bz2", []byte("BZh91AY"), Bzip2, 1},
		{"zstd magic", "test.fa.zst", []byte{0x28, 0xb5, 0x2f, 0xfd, 0x00}, Zstd, 1},
		{"misleading suffix on a plain file", "plain.gz", []byte(">chr1\nACGT\n"), None, 0},
		{"short plain file", "tiny.fa", []byte(">"), None, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			content := tc.content
			if content == nil {
				content = gzipped(t, ">chr1\nACGT\n")
			}
			got := Classify(writeTestFile(t, tc.file, content))
			if got.Format != tc.format || got.Confidence != tc.confidence {
				t.Errorf("Wrong classification: got %+v, want {%v %v}", got, tc.format, tc.confidence)
			}
		})
	}
}

func TestClassifyUnreadableFileFallsBackToSuffix(t *testing.T) {
	got := Classify(filepath.Join(t.TempDir(), "missing.fa.gz"))
	if got.Format != Gzip {
		t.Errorf("Wrong format: got %v, want %v", got.Format, Gzip)
	}
	if got.Confidence > 0.5 {
		t.Errorf("Suffix-only evidence too confident: got %v", got.Confidence)
	}
}

func TestRemediation(t *testing.T) {
	r := Result{Format: Gzip, Confidence: 1}
	if got := r.Remediation("genome.fa.gz"); !strings.Contains(got, "gunzip genome.fa.gz") {
		t.Errorf("Wrong remediation: got %q", got)
	}
}
