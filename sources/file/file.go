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

// Package file provides positional range reads over local files.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Object reads byte ranges from a file on the local filesystem.  Each range
// read opens its own descriptor, so concurrent reads do not interfere.
type Object struct {
	path string
}

// NewObject returns an Object for the file at path.
func NewObject(path string) Object {
	return Object{path: path}
}

// NewRangeReader returns a reader over [offset, offset+length) of the file.
// Length of -1 means to read through the end of the file.  The returned
// reader owns the underlying descriptor; Close releases it.
func (o Object) NewRangeReader(_ context.Context, offset, length int64) (io.ReadCloser, error) {
	f, err := os.Open(o.path)
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("seeking to %d in %s: %v", offset, o.path, err)
	}
	if length < 0 {
		return f, nil
	}
	return &rangeReader{Reader: io.LimitReader(f, length), file: f}, nil
}

type rangeReader struct {
	io.Reader
	file *os.File
}

func (r *rangeReader) Close() error {
	return r.file.Close()
}
