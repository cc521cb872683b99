package models

// Listing types.
const (
	ListingOrganic   = "Organic"
	ListingSponsored = "Sponsored"
)

// Stock statuses.
const (
	StockIn  = "in_stock"
	StockOut = "out_of_stock"
)

// RawListing holds one search-result position exactly as extracted from the
// rendered page. Text fields keep the site's formatting; missing sub-fields
// are empty strings. Raw listings live only for the duration of one
// extraction call and are never persisted.
type RawListing struct {
	Keyword      string
	Rank         int
	Title        string
	PriceText    string
	MrpText      string
	DiscountText string
	Href         string
	Sponsored    bool
	RatingText   string
	ReviewsText  string
	Platform     Platform
}

// Record is the canonical, platform-tagged representation of a listing.
// Price, Mrp and DiscountPercent are nil when unknown; a nil Price implies
// StockStatus == StockOut.
type Record struct {
	Keyword         string
	Rank            int
	ListingType     string
	ProductName     string
	Price           *float64
	Mrp             *float64
	DiscountPercent *float64
	StockStatus     string
	URL             string
	Platform        Platform
	BrandName       string

	// Rating and ReviewCount are only populated by platforms that expose
	// them on the results page (Myntra). They surface as extra columns in
	// the merged dataset and are reconciled away if history lacks them.
	Rating      string
	ReviewCount string
}

// MergedDataset is the row union of all platforms' records for one run,
// with the url column dropped and a single date stamp shared by every row.
type MergedDataset struct {
	Date   string
	Header []string
	Rows   [][]string
}
