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

// Package genomics contains definitions related to genomic coordinates.
package genomics

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// SpecKind identifies which form a coordinate specification took.
type SpecKind int

const (
	// Whole addresses the entire sequence (no coordinates given).
	Whole SpecKind = iota
	// Point addresses a single position ("chr1:12").
	Point
	// Range is an explicit two-sided range ("chr1:5-10").
	Range
	// OpenEnd runs from a position through the end of the sequence
	// ("chr1:30-").
	OpenEnd
	// OpenStart runs from the first base through a position ("chr1:-20").
	OpenStart
	// NegRange is a range with both endpoints counted back from the end of
	// the sequence ("chr1:-4:-1").
	NegRange
)

// Spec is a coordinate specification with raw, unresolved endpoints.  For
// NegRange both endpoints are still negative; for Whole and OpenEnd the end
// is implicit (through the last base) and End is unset.
type Spec struct {
	Kind       SpecKind
	Start, End int64
}

// Region is a parsed region string: a sequence name plus the coordinate
// specification addressing part of that sequence.  Raw preserves the
// original input.
type Region struct {
	Name string
	Raw  string
	Spec Spec
}

func (r Region) String() string {
	return r.Raw
}

// The coordinate mini-grammar is an ordered list of patterns; the first
// match wins.  Order matters: a bare "-12" must resolve as
// first-base-to-12, not as half of a negative range.
var coordinatePatterns = []struct {
	re   *regexp.Regexp
	spec func(groups []string) (Spec, bool)
}{
	{regexp.MustCompile(`^(\d+)$`), func(g []string) (Spec, bool) {
		v, ok := parseCoord(g[1])
		return Spec{Kind: Point, Start: v, End: v}, ok
	}},
	{regexp.MustCompile(`^(-\d+):(-\d+)$`), func(g []string) (Spec, bool) {
		start, ok1 := parseCoord(g[1])
		end, ok2 := parseCoord(g[2])
		return Spec{Kind: NegRange, Start: start, End: end}, ok1 && ok2
	}},
	{regexp.MustCompile(`^(\d+)-(\d+)$`), func(g []string) (Spec, bool) {
		start, ok1 := parseCoord(g[1])
		end, ok2 := parseCoord(g[2])
		return Spec{Kind: Range, Start: start, End: end}, ok1 && ok2
	}},
	{regexp.MustCompile(`^(\d+)-$`), func(g []string) (Spec, bool) {
		v, ok := parseCoord(g[1])
		return Spec{Kind: OpenEnd, Start: v}, ok
	}},
	{regexp.MustCompile(`^-(\d+)$`), func(g []string) (Spec, bool) {
		v, ok := parseCoord(g[1])
		return Spec{Kind: OpenStart, Start: 1, End: v}, ok
	}},
}

func parseCoord(s string) (int64, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	return v, err == nil
}

// ParseRegion parses a region string of the form "name", "name:pos",
// "name:start-end", "name:start-", "name:-end" or "name:-start:-end".  A
// string without a coordinate part addresses the whole sequence.  When the
// text after the first colon matches none of the coordinate forms, the
// entire input (colon included) is treated as the sequence name; names that
// themselves contain a colon therefore resolve as long as their suffix does
// not look like a coordinate.
func ParseRegion(s string) Region {
	whole := Region{Name: s, Raw: s, Spec: Spec{Kind: Whole, Start: 1}}

	i := strings.Index(s, ":")
	if i < 0 {
		return whole
	}

	coords := s[i+1:]
	for _, p := range coordinatePatterns {
		groups := p.re.FindStringSubmatch(coords)
		if groups == nil {
			continue
		}
		if spec, ok := p.spec(groups); ok {
			return Region{Name: s[:i], Raw: s, Spec: spec}
		}
	}
	return whole
}

// Resolved holds concrete 1-based inclusive coordinates after applying a
// Spec to a sequence of known length.  ReverseComplement is set when the
// original endpoints were given in descending order, which requests the
// reverse complement of the extracted range.
type Resolved struct {
	Start, End        int64
	ReverseComplement bool
}

// Resolve converts the raw endpoints of spec into concrete positions on a
// sequence of the given length.  An implicit end (Whole, OpenEnd) resolves
// to length directly; any other negative endpoint v resolves to length+v+1,
// so -1 is the last base.  Descending endpoints are swapped and flagged for
// reverse complementation.  The result is validated against [1, length].
func Resolve(spec Spec, length int64) (Resolved, error) {
	start := resolveCoord(spec.Start, length)

	var end int64
	switch spec.Kind {
	case Whole, OpenEnd:
		end = length
	default:
		end = resolveCoord(spec.End, length)
	}

	var rc bool
	if start > end {
		start, end = end, start
		rc = true
	}

	if start < 1 {
		return Resolved{}, fmt.Errorf("position %d is below the lower bound 1 (valid range is 1-%d)", start, length)
	}
	if end > length {
		return Resolved{}, fmt.Errorf("position %d is above the upper bound %d (valid range is 1-%d)", end, length, length)
	}
	return Resolved{Start: start, End: end, ReverseComplement: rc}, nil
}

func resolveCoord(v, length int64) int64 {
	if v < 0 {
		return length + v + 1
	}
	return v
}
