package filter

type and struct {
	filters []Filter
}

func And(filters ...Filter) Filter {
	return &and{filters: filters}
}

func (f *and) Matches(view EntityView) bool {
	for _, filter := range f.filters {
		if !filter.Matches(view) {
			return false
		}
	}
	return true
}
