package filter

type exact struct {
	components []string
}

// Exact matches entities that have exactly the named components, no more.
func Exact(components ...string) Filter {
	return exact{components: components}
}

func (f exact) Matches(view EntityView) bool {
	if len(view.Components) != len(f.components) {
		return false
	}
	for _, name := range view.Components {
		if !matchName(f.components, name) {
			return false
		}
	}
	return true
}
