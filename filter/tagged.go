package filter

type tagged struct {
	tags []string
}

// Tagged matches entities that carry all the named tags.
func Tagged(tags ...string) Filter {
	return &tagged{tags: tags}
}

func (f *tagged) Matches(view EntityView) bool {
	for _, tag := range f.tags {
		if !matchName(view.Tags, tag) {
			return false
		}
	}
	return true
}
