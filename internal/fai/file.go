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
	"os"
)

// ScanFile builds an index for the FASTA file at path.
func ScanFile(path string, fullHeader bool) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening FASTA %s: %v", path, err)
	}
	defer f.Close()

	idx, err := Scan(f, fullHeader)
	if err != nil {
		return nil, fmt.Errorf("indexing %s: %v", path, err)
	}
	return idx, nil
}

// ReadFile loads a persisted .fai index from path.
func ReadFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening index %s: %v", path, err)
	}
	defer f.Close()

	idx, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	return idx, nil
}

// WriteFile persists the index to path, replacing any existing file.
func (idx *Index) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating index %s: %v", path, err)
	}
	if _, err := idx.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing index %s: %v", path, err)
	}
	return nil
}
