package pagination

// Navigation holds the page numbers behind the first/prev/next/last links of a listing.
type Navigation struct {
	First int
	Prev  int
	Next  int
	Last  int
}

// NewNavigation computes the navigation targets for page.
// Prev and Next are plain arithmetic on the requested number; Last is the LastPage sentinel.
func NewNavigation(page int) Navigation {
	return Navigation{
		First: 0,
		Prev:  page - 1,
		Next:  page + 1,
		Last:  LastPage,
	}
}
