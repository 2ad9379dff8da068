package models

// Page is one page of a paginated list endpoint.
type Page[T any] struct {
	Items   []T
	Number  int
	HasNext bool
}

// HasPrev reports whether a "Previous" control should be enabled.
func (p Page[T]) HasPrev() bool {
	return p.Number > 1
}
