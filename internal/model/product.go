package model

// Product is a marketplace listing in the `products` table. ProductID is the
// public identifier and is unique. SellerID references the account that listed
// the product; mutations are restricted to that account.
//
// Price, Details and Shipping are stored as JSON columns, same as the nested
// profile blocks.
type Product struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Images      []string        `json:"images"`
	SellerID    string          `json:"sellerId"`
	Price       *Price          `json:"price"`
	Details     *ProductDetails `json:"details"`
	Shipping    *Shipping       `json:"shipping"`
}

// Price carries the current unit price plus the negotiable range.
type Price struct {
	Current float64    `json:"current"`
	Range   PriceRange `json:"range"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ProductDetails describes the goods themselves.
type ProductDetails struct {
	Name               string `json:"name"`
	Product            string `json:"product"`
	Origin             string `json:"origin"`
	ProductionCapacity string `json:"productionCapacity"`
	ExportVolume       string `json:"exportVolume"`
	FormAndCut         string `json:"formAndCut"`
	Color              string `json:"color"`
	CultivationType    string `json:"cultivationType"`
	Moisture           string `json:"moisture,omitempty"`
	Forecast           string `json:"forecast,omitempty"`
}

// Shipping describes logistics terms for a listing.
type Shipping struct {
	HSCode        string `json:"hsCode"`
	MinQuantity   string `json:"minQuantity"`
	Packaging     string `json:"packaging"`
	TransportMode string `json:"transportMode"`
	Incoterms     string `json:"incoterms"`
	ShelfLife     string `json:"shelfLife"`
}
