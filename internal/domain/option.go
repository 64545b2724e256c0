package domain

// Summary holds the enrichment fields derived from a single product record.
// Every field is optional: a missing or malformed input leaves it nil rather
// than producing an error. JSON tags match the storefront wire contract.
type Summary struct {
	Collection           *string  `json:"colecao_principal"`
	PrimaryImage         *string  `json:"imagem_principal"`
	Price                *float64 `json:"preco"`
	ListPrice            *float64 `json:"preco_lista"`
	PriceWithoutDiscount *float64 `json:"preco_sem_desconto"`
	DiscountPercent      *float64 `json:"percentual_desconto"`
}

// MergeInto attaches the derived fields to a decoded copy of a raw product
// record. The caller owns the map; parsed Product values are never mutated.
func (s Summary) MergeInto(raw map[string]any) {
	raw["colecao_principal"] = s.Collection
	raw["imagem_principal"] = s.PrimaryImage
	raw["preco"] = s.Price
	raw["preco_lista"] = s.ListPrice
	raw["preco_sem_desconto"] = s.PriceWithoutDiscount
	raw["percentual_desconto"] = s.DiscountPercent
	raw["md_resumo"] = s
}

// VariantOption is one resolved (code, plating, stone) combination with its
// representative image and price summary. One option is emitted per (product,
// SKU item) pair that survives the matching filters and has a usable image.
type VariantOption struct {
	ProductID     string `json:"productId"`
	Code          string `json:"codigo_completo"`
	RequestedCode string `json:"codigo_busca"`
	Plating       string `json:"banho"`
	Stone         string `json:"pedra"`

	Name       string  `json:"nome"`
	Collection *string `json:"colecao_principal"`
	Link       string  `json:"link"`

	Price                *float64 `json:"preco"`
	ListPrice            *float64 `json:"preco_lista"`
	PriceWithoutDiscount *float64 `json:"preco_sem_desconto"`
	DiscountPercent      *float64 `json:"percentual_desconto"`

	PrimaryImage *string `json:"imagem_principal"`
	ImageURL     string  `json:"image_url"`
	ProxiedURL   string  `json:"proxied_url"`
}

// ResolvedImage is the outcome of the single-best-match image lookup.
type ResolvedImage struct {
	ImageURL   string `json:"image_url"`
	ProxiedURL string `json:"proxied_url"`
}
