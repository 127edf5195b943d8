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

// Package dna provides nucleotide sequence manipulation helpers.
package dna

var complement [256]byte

func init() {
	for i := range complement {
		complement[i] = byte(i)
	}
	table := map[byte]byte{
		'A': 'T', 'T': 'A', 'G': 'C', 'C': 'G', 'U': 'A',
		'R': 'Y', 'Y': 'R', 'K': 'M', 'M': 'K',
		'B': 'V', 'V': 'B', 'D': 'H', 'H': 'D',
		// S, W and N are their own complements.
	}
	for from, to := range table {
		complement[from] = to
		complement[from|0x20] = to | 0x20
	}
}

// ReverseComplement returns the reverse complement of seq using the full
// IUPAC nucleotide alphabet.  Case is preserved and characters outside the
// alphabet pass through unchanged.
func ReverseComplement(seq []byte) []byte {
	n := len(seq)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = complement[seq[n-1-i]]
	}
	return out
}
