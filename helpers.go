package router

// containsString returns true if the given string value is in the slice.
func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// indexOfString returns the index of value in values, or -1.
func indexOfString(values []string, value string) int {
	for i, v := range values {
		if v == value {
			return i
		}
	}
	return -1
}
