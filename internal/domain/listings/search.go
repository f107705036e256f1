package listings

type SortOrder string

const (
	SortNone         SortOrder = ""
	SortPriceLowHigh SortOrder = "PRICE_LOW_TO_HIGH"
	SortPriceHighLow SortOrder = "PRICE_HIGH_TO_LOW"
)

type SearchParams struct {
	Country string
	Admin   string
	City    string
	HostID  string
	Sort    SortOrder
	Limit   int
	Page    int
}

type SearchResult struct {
	Total  int
	Result []*Listing
}

// Normalized applies pagination defaults.
func (p SearchParams) Normalized() SearchParams {
	if p.Limit <= 0 {
		p.Limit = 10
	}
	if p.Page <= 0 {
		p.Page = 1
	}
	return p
}

// Offset is the number of listings skipped before the requested page.
func (p SearchParams) Offset() int {
	return (p.Page - 1) * p.Limit
}
