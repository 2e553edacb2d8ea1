package wca

import "strings"

// CleanID validates a WCA competitor ID and returns its canonical uppercase
// form. IDs follow YYYYCCCCNN: four digits (year of first competition), four
// uppercase letters (name identifier), two digits (disambiguation). Format
// validity only; existence in the WCA database is not checked.
func CleanID(id string) (string, bool) {
	upper := strings.ToUpper(id)
	if len(upper) != 10 {
		return "", false
	}
	for i := 0; i < 4; i++ {
		if upper[i] < '0' || upper[i] > '9' {
			return "", false
		}
	}
	for i := 4; i < 8; i++ {
		if upper[i] < 'A' || upper[i] > 'Z' {
			return "", false
		}
	}
	for i := 8; i < 10; i++ {
		if upper[i] < '0' || upper[i] > '9' {
			return "", false
		}
	}
	return upper, true
}
