package filter

type or struct {
	filters []Filter
}

func Or(filters ...Filter) Filter {
	return &or{filters: filters}
}

func (f *or) Matches(view EntityView) bool {
	for _, filter := range f.filters {
		if filter.Matches(view) {
			return true
		}
	}
	return false
}
