package domain

import "time"

// Image is a product or collection image.
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// SelectedOption is a chosen product option value, e.g. Size=M.
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ProductOption is a configurable axis on a product with its possible values.
type ProductOption struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Variant is a purchasable variation of a product.
type Variant struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	AvailableForSale bool             `json:"available_for_sale"`
	SelectedOptions  []SelectedOption `json:"selected_options"`
	Price            Money            `json:"price"`
}

// PriceRange spans the cheapest and most expensive variant of a product.
type PriceRange struct {
	MinVariantPrice Money `json:"min_variant_price"`
	MaxVariantPrice Money `json:"max_variant_price"`
}

// SEO carries the platform-managed page metadata for a product or collection.
type SEO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Product is the normalized product projection used across the storefront.
// Variants and images are flat slices; pagination wrappers are stripped
// during normalization.
type Product struct {
	ID               string          `json:"id"`
	Handle           string          `json:"handle"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	DescriptionHTML  string          `json:"description_html"`
	AvailableForSale bool            `json:"available_for_sale"`
	Options          []ProductOption `json:"options"`
	PriceRange       PriceRange      `json:"price_range"`
	Variants         []Variant       `json:"variants"`
	FeaturedImage    *Image          `json:"featured_image,omitempty"`
	Images           []Image         `json:"images"`
	SEO              SEO             `json:"seo"`
	Tags             []string        `json:"tags"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Collection groups products under a handle.
type Collection struct {
	Handle      string    `json:"handle"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SEO         SEO       `json:"seo"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductSortKey selects the ordering of a product listing.
type ProductSortKey string

const (
	SortBestSelling ProductSortKey = "BEST_SELLING"
	SortCreated     ProductSortKey = "CREATED_AT"
	SortPrice       ProductSortKey = "PRICE"
	SortTitle       ProductSortKey = "TITLE"
	SortRelevance   ProductSortKey = "RELEVANCE"
)
