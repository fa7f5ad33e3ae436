package format

// Align returns n rounded up to the next multiple of WordSize.
//
// Example:
//
//	Align(0)  = 0
//	Align(1)  = 8
//	Align(8)  = 8
//	Align(9)  = 16
func Align(n int) int {
	return (n + WordMask) &^ WordMask
}

// IsAligned reports whether n is a multiple of WordSize.
func IsAligned(n int) bool {
	return n&WordMask == 0
}

// PageAlign rounds n up to a multiple of pageSize, which must be a power of two.
func PageAlign(n, pageSize int) int {
	return (n + pageSize - 1) &^ (pageSize - 1)
}
