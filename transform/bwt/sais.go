package bwt

import "slices"

// SuffixArray returns the sorted suffix array of data, computed with SA-IS in linear
// time. The result has len(data)+1 entries: the empty suffix, starting at len(data), is
// always first.
func SuffixArray(data []byte) []int {
	symbols := make([]int, len(data))
	for i, b := range data {
		symbols[i] = int(b)
	}
	return sais(symbols, 256)
}

func sais(data []int, alphabetSize int) []int {
	isS := suffixTypes(data)
	sizes := bucketSizes(data, alphabetSize)
	heads := bucketHeads(sizes)
	tails := bucketTails(sizes)

	sa := approximateLMS(data, slices.Clone(tails), isS)
	induceL(data, sa, slices.Clone(heads), isS)
	induceS(data, sa, slices.Clone(tails), isS)

	names, alphabet := lmsNames(data, sa, isS)
	summary, summaryOffsets := summarize(names)
	summarySA := summarySuffixArray(summary, alphabet)

	sa = placeLMS(data, slices.Clone(tails), summarySA, summaryOffsets)
	induceL(data, sa, heads, isS)
	induceS(data, sa, tails, isS)
	return sa
}

// suffixTypes reports, for every suffix including the empty one, whether it is S-type:
// smaller than the suffix starting one position to its right.
func suffixTypes(data []int) []bool {
	n := len(data)
	isS := make([]bool, n+1)
	isS[n] = true
	if n == 0 {
		return isS
	}
	for i := n - 2; i >= 0; i-- {
		switch {
		case data[i] < data[i+1]:
			isS[i] = true
		case data[i] == data[i+1]:
			isS[i] = isS[i+1]
		}
	}
	return isS
}

func isLMS(isS []bool, i int) bool {
	return i > 0 && isS[i] && !isS[i-1]
}

func bucketSizes(data []int, alphabetSize int) []int {
	sizes := make([]int, alphabetSize)
	for _, c := range data {
		sizes[c]++
	}
	return sizes
}

// Slot 0 belongs to the empty suffix, so buckets start at 1.
func bucketHeads(sizes []int) []int {
	heads := make([]int, len(sizes))
	offset := 1
	for c, size := range sizes {
		heads[c] = offset
		offset += size
	}
	return heads
}

func bucketTails(sizes []int) []int {
	tails := make([]int, len(sizes))
	offset := 1
	for c, size := range sizes {
		offset += size
		tails[c] = offset - 1
	}
	return tails
}

func emptySuffixArray(n int) []int {
	sa := make([]int, n+1)
	for i := range sa {
		sa[i] = -1
	}
	sa[0] = n
	return sa
}

// approximateLMS drops every LMS suffix at the tail of its bucket, in text order.
func approximateLMS(data []int, tails []int, isS []bool) []int {
	sa := emptySuffixArray(len(data))
	for i := range data {
		if !isLMS(isS, i) {
			continue
		}
		c := data[i]
		sa[tails[c]] = i
		tails[c]--
	}
	return sa
}

func induceL(data []int, sa []int, heads []int, isS []bool) {
	for i := 0; i < len(sa); i++ {
		if sa[i] <= 0 || isS[sa[i]-1] {
			continue
		}
		j := sa[i] - 1
		c := data[j]
		sa[heads[c]] = j
		heads[c]++
	}
}

func induceS(data []int, sa []int, tails []int, isS []bool) {
	for i := len(sa) - 1; i >= 0; i-- {
		if sa[i] <= 0 || !isS[sa[i]-1] {
			continue
		}
		j := sa[i] - 1
		c := data[j]
		sa[tails[c]] = j
		tails[c]--
	}
}

// lmsSubstringsEqual compares the LMS substrings starting at a and b, each running up to
// and including the next LMS position.
func lmsSubstringsEqual(data []int, isS []bool, a, b int) bool {
	n := len(data)
	if a == n || b == n {
		return false
	}
	for i := 0; ; i++ {
		aLMS, bLMS := isLMS(isS, a+i), isLMS(isS, b+i)
		if i > 0 && aLMS && bLMS {
			return true
		}
		if aLMS != bLMS || data[a+i] != data[b+i] {
			return false
		}
	}
}

// lmsNames numbers the LMS substrings in the order the induced sort left them, equal
// neighbours sharing a name. Non-LMS positions are -1. The second result is the number
// of distinct names.
func lmsNames(data []int, sa []int, isS []bool) ([]int, int) {
	names := make([]int, len(data)+1)
	for i := range names {
		names[i] = -1
	}
	name := 0
	last := sa[0]
	names[last] = name
	for _, offset := range sa[1:] {
		if !isLMS(isS, offset) {
			continue
		}
		if !lmsSubstringsEqual(data, isS, last, offset) {
			name++
		}
		last = offset
		names[offset] = name
	}
	return names, name + 1
}

// summarize collects the names in text order along with where each LMS substring starts.
func summarize(names []int) ([]int, []int) {
	var summary, offsets []int
	for offset, name := range names {
		if name < 0 {
			continue
		}
		summary = append(summary, name)
		offsets = append(offsets, offset)
	}
	return summary, offsets
}

func summarySuffixArray(summary []int, alphabetSize int) []int {
	if len(summary) != alphabetSize {
		return sais(summary, alphabetSize)
	}
	// every name is distinct, so the names are the ranks
	sa := make([]int, alphabetSize+1)
	sa[0] = len(summary)
	for i, name := range summary {
		sa[name+1] = i
	}
	return sa
}

// placeLMS puts the LMS suffixes in their exact relative order at the bucket tails.
// The first two summary entries are the summary's empty suffix and the data's empty
// suffix, both already accounted for.
func placeLMS(data []int, tails []int, summarySA []int, summaryOffsets []int) []int {
	sa := emptySuffixArray(len(data))
	for i := len(summarySA) - 1; i > 1; i-- {
		offset := summaryOffsets[summarySA[i]]
		c := data[offset]
		sa[tails[c]] = offset
		tails[c]--
	}
	return sa
}
