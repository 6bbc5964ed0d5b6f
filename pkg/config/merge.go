package config

// mergeZero returns the last non-zero value.
func mergeZero[T comparable](values ...T) T {
	var ret T
	for i := len(values) - 1; i >= 0; i-- {
		if values[i] != ret {
			return values[i]
		}
	}
	return ret
}
