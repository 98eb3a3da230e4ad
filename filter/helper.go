package filter

// matchName returns true if the given slice of names contains the given name.
func matchName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
