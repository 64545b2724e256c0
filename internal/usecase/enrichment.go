package usecase

import (
	"github.com/mdcatalog/backend/internal/domain"
)

// Enrich derives the summary fields of a single product record: primary
// collection, primary image, price figures and discount percentage. Each
// field defaults to absent when its inputs are missing or malformed; Enrich
// never fails and never mutates the product.
//
// All price-derived fields come from the first seller's offer on the first
// SKU item only; they do not vary per matched item within the same product.
func Enrich(p domain.Product) domain.Summary {
	var s domain.Summary

	if len(p.Collections) > 0 {
		s.Collection = ptr(p.Collections[0])
	}

	if len(p.Items) == 0 {
		return s
	}
	first := p.Items[0]

	// Primary image is strictly positional: first image of the first item,
	// without the unlabeled-image heuristic used for variant options.
	if len(first.Images) > 0 {
		s.PrimaryImage = ptr(first.Images[0].URL)
	}

	if len(first.Sellers) == 0 {
		return s
	}
	offer := first.Sellers[0].Offer

	s.Price = offer.Price
	s.ListPrice = offer.ListPrice
	s.PriceWithoutDiscount = offer.PriceWithoutDiscount
	s.DiscountPercent = discountPercent(offer.Price, offer.ListPrice)

	return s
}

// discountPercent computes (1 - price/listPrice) * 100. The result is absent
// unless both figures are present and the list price is strictly positive;
// downstream display treats absent as "no discount badge".
func discountPercent(price, listPrice *float64) *float64 {
	if price == nil || listPrice == nil || *listPrice <= 0 {
		return nil
	}
	return ptr((1 - *price / *listPrice) * 100)
}

func ptr[T any](v T) *T { return &v }
