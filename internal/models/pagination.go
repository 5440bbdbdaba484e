package models

const PageSize = 20

// Page holds the client supplied paging hints. Skip wins over Number.
type Page struct {
	Skip   *int
	Number *int
}

func (p Page) Offset() int {
	if p.Skip != nil && *p.Skip >= 0 {
		return *p.Skip
	}
	if p.Number != nil && *p.Number > 1 {
		return (*p.Number - 1) * PageSize
	}
	return 0
}
