package domain

import "encoding/json"

// Product represents a raw product record from the VTEX catalog search feed.
// Only the fields the matching pipeline consumes are mapped; the untouched
// payload is kept in Raw for the passthrough search path.
type Product struct {
	ProductID     string    `json:"productId"`
	ProductName   string    `json:"productName"`
	Link          string    `json:"link"`
	Reference     string    `json:"productReference"`
	ReferenceCode string    `json:"productReferenceCode"`
	Collections   []string  `json:"Coleções"`
	Stones        []string  `json:"Pedras"`
	Items         []SKUItem `json:"items"`

	Raw json.RawMessage `json:"-"`
}

// RefCode resolves the product's reference code from whichever of the two
// feed field names is populated. productReference wins when both are set.
func (p *Product) RefCode() string {
	if p.Reference != "" {
		return p.Reference
	}
	return p.ReferenceCode
}

// StoneLabel returns the display label for the product's stone attribute
// (first raw tag), or "" when the product carries no stone tags.
func (p *Product) StoneLabel() string {
	if len(p.Stones) == 0 {
		return ""
	}
	return p.Stones[0]
}

// SKUItem is a single SKU nested inside a product record.
type SKUItem struct {
	Platings []string `json:"Banho"`
	Images   []Image  `json:"images"`
	Sellers  []Seller `json:"sellers"`
}

// PlatingLabel returns the display label for the item's plating attribute
// (first raw tag), or "" when the item carries no plating tags.
func (it *SKUItem) PlatingLabel() string {
	if len(it.Platings) == 0 {
		return ""
	}
	return it.Platings[0]
}

// Image is one candidate image of a SKU item.
type Image struct {
	URL   string `json:"imageUrl"`
	Label string `json:"imageLabel"`
}

// Seller carries the commercial offer of one seller. Only the first seller
// in an item's list is authoritative.
type Seller struct {
	Offer CommercialOffer `json:"commertialOffer"`
}

// CommercialOffer holds the price figures of a seller's offer. The feed omits
// fields freely, so everything is a pointer; nil means absent.
type CommercialOffer struct {
	Price                *float64 `json:"Price"`
	ListPrice            *float64 `json:"ListPrice"`
	PriceWithoutDiscount *float64 `json:"PriceWithoutDiscount"`
}
