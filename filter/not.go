package filter

func Not(filter Filter) Filter {
	return &not{filter: filter}
}

type not struct {
	filter Filter
}

func (f *not) Matches(view EntityView) bool {
	return !f.filter.Matches(view)
}
