package filter

type contains struct {
	components []string
}

// Contains matches entities that have all the named components.
func Contains(components ...string) Filter {
	return &contains{components: components}
}

func (f *contains) Matches(view EntityView) bool {
	for _, name := range f.components {
		if !matchName(view.Components, name) {
			return false
		}
	}
	return true
}
