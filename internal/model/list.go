package model

// ListParams are the listing options shared by every entity.
type ListParams struct {
	Search   string
	Status   string
	SortBy   string
	SortDesc bool
}
