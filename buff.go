package fixedwidth

import (
	"errors"
	"unicode/utf8"
)

// rawValue is a string that can be sliced by character position.
type rawValue struct {
	data string
	// A mapping of codepoint indices into the bytes of data. So the
	// `codepointIndices[n]` is the starting position for the n-th codepoint in
	// data. nil when data holds no multi-byte characters.
	codepointIndices []int
}

func newRawValue(data string) (rawValue, error) {
	value := rawValue{
		data: data,
	}
	bytesIdx := findFirstMultiByteChar(data)
	// If we've got multi-byte characters, fill in the rest of codepointIndices.
	if bytesIdx < len(data) {
		codepointIndices := make([]int, bytesIdx)
		for i := 0; i < bytesIdx; i++ {
			codepointIndices[i] = i
		}
		for bytesIdx < len(data) {
			_, codepointSize := utf8.DecodeRuneInString(data[bytesIdx:])
			if codepointSize == 0 {
				return rawValue{}, errors.New("fixedwidth: Invalid codepoint")
			}
			codepointIndices = append(codepointIndices, bytesIdx)
			bytesIdx += codepointSize
		}
		value.codepointIndices = codepointIndices
	}
	return value, nil
}

// len returns the number of characters in v.
func (v rawValue) len() int {
	if v.codepointIndices == nil {
		return len(v.data)
	}
	return len(v.codepointIndices)
}

func (v rawValue) byteStartIndex(start int) int {
	if v.codepointIndices == nil {
		return start
	}
	return v.codepointIndices[start]
}

func (v rawValue) byteEndIndex(end int) int {
	if v.codepointIndices == nil {
		return end
	}
	if end == len(v.codepointIndices)-1 {
		return len(v.data) - 1
	}
	return v.codepointIndices[end+1] - 1
}

// slice returns the characters from start to end, inclusive. The caller
// ensures both indices are in range.
func (v rawValue) slice(start, end int) string {
	return v.data[v.byteStartIndex(start) : v.byteEndIndex(end)+1]
}

// Scans bytes, looking for multi-byte characters, returns either the index of
// the first multi-byte chracter or the length of the string if there are none.
func findFirstMultiByteChar(data string) int {
	for i := 0; i < len(data); i++ {
		if data[i]&0x80 == 0x80 {
			return i
		}
	}
	return len(data)
}
