package filter

type all struct{}

// All matches every entity.
func All() Filter {
	return &all{}
}

func (f *all) Matches(_ EntityView) bool {
	return true
}
