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

package extract

import (
	"context"
	"fmt"
	"regexp"
)

// ErrorPolicy decides what a stream does when one item fails to extract.
type ErrorPolicy int

const (
	// Propagate stops the stream at the first failure and reports it
	// through Err.
	Propagate ErrorPolicy = iota
	// Skip silently drops failing items and continues with the rest.
	Skip
)

// Stream yields extraction results one at a time, in input order.  Usage
// follows bufio.Scanner: call Scan until it returns false, then check Err.
// Items are extracted only as Scan demands them, so abandoning a stream
// early does no further work.
type Stream struct {
	fetch  func() (Record, bool, error)
	policy ErrorPolicy

	record Record
	err    error
	done   bool
}

// Scan advances to the next successfully extracted record.  It returns
// false when the input is exhausted or, under the Propagate policy, when an
// extraction fails.
func (s *Stream) Scan() bool {
	if s.done {
		return false
	}
	for {
		record, ok, err := s.fetch()
		if !ok {
			s.done = true
			return false
		}
		if err != nil {
			if s.policy == Skip {
				continue
			}
			s.err = err
			s.done = true
			return false
		}
		s.record = record
		return true
	}
}

// Record returns the record produced by the last successful Scan.
func (s *Stream) Record() Record {
	return s.record
}

// Err returns the error that stopped the stream, if any.
func (s *Stream) Err() error {
	return s.err
}

// ExtractMany extracts each region in order, lazily.
func (e *Extractor) ExtractMany(ctx context.Context, regions []string, policy ErrorPolicy) *Stream {
	i := 0
	return &Stream{
		policy: policy,
		fetch: func() (Record, bool, error) {
			if i >= len(regions) {
				return Record{}, false, nil
			}
			region := regions[i]
			i++
			record, err := e.Extract(ctx, region)
			return record, true, err
		},
	}
}

// PatternOptions configures ExtractByPattern.
type PatternOptions struct {
	CaseInsensitive bool
	OnError         ErrorPolicy
}

// ExtractByPattern extracts every indexed sequence whose name matches the
// regular expression pattern, in index order.
func (e *Extractor) ExtractByPattern(ctx context.Context, pattern string, opts PatternOptions) (*Stream, error) {
	if opts.CaseInsensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, newValidationError("compiling pattern", fmt.Errorf("%q: %v", pattern, err))
	}

	names := e.index.Names()
	i := 0
	return &Stream{
		policy: opts.OnError,
		fetch: func() (Record, bool, error) {
			for i < len(names) {
				name := names[i]
				i++
				if !re.MatchString(name) {
					continue
				}
				record, err := e.Extract(ctx, name)
				return record, true, err
			}
			return Record{}, false, nil
		},
	}, nil
}
