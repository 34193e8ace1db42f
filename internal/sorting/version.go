package sorting

import (
	"strings"
)

// CompareVersion orders names so that runs of digits compare as integers and
// everything else compares byte-wise, e.g. "file2" < "file10". Names whose
// runs are numerically equal ("a01", "a1") fall back to a plain comparison so
// the order stays total.
func CompareVersion(left string, right string) int {
	leftIndex, rightIndex := 0, 0
	for leftIndex < len(left) && rightIndex < len(right) {
		leftByte := left[leftIndex]
		rightByte := right[rightIndex]
		if isDigit(leftByte) && isDigit(rightByte) {
			leftEnd := digitRunEnd(left, leftIndex)
			rightEnd := digitRunEnd(right, rightIndex)
			if result := compareDigitRuns(left[leftIndex:leftEnd], right[rightIndex:rightEnd]); result != 0 {
				return result
			}
			leftIndex, rightIndex = leftEnd, rightEnd
			continue
		}
		if leftByte != rightByte {
			if leftByte < rightByte {
				return -1
			}
			return 1
		}
		leftIndex++
		rightIndex++
	}
	switch {
	case leftIndex < len(left):
		return 1
	case rightIndex < len(right):
		return -1
	}
	return strings.Compare(left, right)
}

func isDigit(value byte) bool {
	return value >= '0' && value <= '9'
}

func digitRunEnd(value string, start int) int {
	end := start
	for end < len(value) && isDigit(value[end]) {
		end++
	}
	return end
}

// compareDigitRuns compares two digit strings numerically without overflow.
func compareDigitRuns(left string, right string) int {
	left = strings.TrimLeft(left, "0")
	right = strings.TrimLeft(right, "0")
	if len(left) != len(right) {
		if len(left) < len(right) {
			return -1
		}
		return 1
	}
	return strings.Compare(left, right)
}
