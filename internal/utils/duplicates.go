package utils

// TitleFilter drops repeated titles while keeping first-seen order.
// Titles are compared byte for byte; "Array" and "array" are distinct.
type TitleFilter struct {
	seen map[string]struct{}
}

// NewTitleFilter creates an empty filter.
func NewTitleFilter() *TitleFilter {
	return &TitleFilter{seen: make(map[string]struct{})}
}

// ShouldInclude returns true the first time a title is seen and false after.
func (f *TitleFilter) ShouldInclude(title string) bool {
	if _, ok := f.seen[title]; ok {
		return false
	}
	f.seen[title] = struct{}{}
	return true
}
