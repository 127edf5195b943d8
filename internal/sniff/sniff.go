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

// Package sniff detects stream-compressed files by magic bytes.  Byte-offset
// random access cannot work through a compressed stream, so callers use the
// classification to reject such inputs up front.
package sniff

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// Format names a detected compression format.
type Format string

const (
	// None means the file does not look compressed.
	None Format = ""

	Gzip  Format = "gzip"
	Bzip2 Format = "bzip2"
	Xz    Format = "xz"
	Zstd  Format = "zstd"
)

// Result is a classification of a file.  Confidence is 1 for a magic-byte
// match and lower for weaker evidence such as a file name suffix.
type Result struct {
	Format     Format
	Confidence float64
}

// Remediation returns a shell command that decompresses the classified file
// in place, suitable for inclusion in error messages.
func (r Result) Remediation(path string) string {
	switch r.Format {
	case Gzip:
		return fmt.Sprintf("gunzip %s", path)
	case Bzip2:
		return fmt.Sprintf("bunzip2 %s", path)
	case Xz:
		return fmt.Sprintf("unxz %s", path)
	case Zstd:
		return fmt.Sprintf("unzstd %s", path)
	}
	return ""
}

var magics = []struct {
	bytes  []byte
	format Format
}{
	{[]byte{0x1f, 0x8b}, Gzip},
	{[]byte{'B', 'Z', 'h'}, Bzip2},
	{[]byte{0xfd, '7', 'z', 'X', 'Z', 0x00}, Xz},
	{[]byte{0x28, 0xb5, 0x2f, 0xfd}, Zstd},
}

var suffixes = map[string]Format{
	".gz":  Gzip,
	".bgz": Gzip,
	".bz2": Bzip2,
	".xz":  Xz,
	".zst": Zstd,
}

// Classify reports whether the file at path appears to be stream compressed.
// A magic-byte match yields confidence 1; when the file cannot be read or
// its header matches nothing, a known suffix yields a weaker confidence 0.4.
func Classify(path string) Result {
	if r, ok := classifyHeader(path); ok {
		return r
	}
	for suffix, format := range suffixes {
		if strings.HasSuffix(path, suffix) {
			return Result{Format: format, Confidence: 0.4}
		}
	}
	return Result{}
}

func classifyHeader(path string) (Result, bool) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, false
	}
	defer f.Close()

	header := make([]byte, 6)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return Result{}, false
	}
	header = header[:n]

	for _, m := range magics {
		if bytes.HasPrefix(header, m.bytes) {
			return Result{Format: m.format, Confidence: 1}, true
		}
	}
	return Result{}, true
}
