package shopify

import (
	"strings"
	"time"

	"github.com/utafrali/storefront/internal/domain"
)

// --- wire shapes ---
//
// These mirror the platform's GraphQL responses, including the edge/node
// pagination wrappers. toDomain methods flatten them into the normalized
// domain shapes; nothing outside this package sees an edge or a node.

// connection is the platform's cursor pagination wrapper.
type connection[T any] struct {
	Edges []struct {
		Node T `json:"node"`
	} `json:"edges"`
}

// flatten strips the pagination wrapper, preserving order.
func (c connection[T]) flatten() []T {
	out := make([]T, 0, len(c.Edges))
	for _, e := range c.Edges {
		out = append(out, e.Node)
	}
	return out
}

type moneyWire struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

func (m moneyWire) toDomain() domain.Money {
	return domain.Money{Amount: m.Amount, CurrencyCode: m.CurrencyCode}
}

type imageWire struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

func (i imageWire) toDomain() domain.Image {
	return domain.Image{URL: i.URL, AltText: i.AltText, Width: i.Width, Height: i.Height}
}

type selectedOptionWire struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type productOptionWire struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type variantWire struct {
	ID               string               `json:"id"`
	Title            string               `json:"title"`
	AvailableForSale bool                 `json:"availableForSale"`
	SelectedOptions  []selectedOptionWire `json:"selectedOptions"`
	Price            moneyWire            `json:"price"`
}

type seoWire struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type productWire struct {
	ID               string                `json:"id"`
	Handle           string                `json:"handle"`
	AvailableForSale bool                  `json:"availableForSale"`
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	DescriptionHTML  string                `json:"descriptionHtml"`
	Options          []productOptionWire   `json:"options"`
	PriceRange       struct {
		MinVariantPrice moneyWire `json:"minVariantPrice"`
		MaxVariantPrice moneyWire `json:"maxVariantPrice"`
	} `json:"priceRange"`
	Variants      connection[variantWire] `json:"variants"`
	FeaturedImage *imageWire              `json:"featuredImage"`
	Images        connection[imageWire]   `json:"images"`
	SEO           seoWire                 `json:"seo"`
	Tags          []string                `json:"tags"`
	UpdatedAt     time.Time               `json:"updatedAt"`
}

func (p productWire) toDomain() domain.Product {
	variants := make([]domain.Variant, 0, len(p.Variants.Edges))
	for _, v := range p.Variants.flatten() {
		variants = append(variants, domain.Variant{
			ID:               v.ID,
			Title:            v.Title,
			AvailableForSale: v.AvailableForSale,
			SelectedOptions:  toDomainOptions(v.SelectedOptions),
			Price:            v.Price.toDomain(),
		})
	}

	images := make([]domain.Image, 0, len(p.Images.Edges))
	for _, img := range p.Images.flatten() {
		images = append(images, img.toDomain())
	}

	options := make([]domain.ProductOption, 0, len(p.Options))
	for _, o := range p.Options {
		options = append(options, domain.ProductOption{ID: o.ID, Name: o.Name, Values: o.Values})
	}

	var featured *domain.Image
	if p.FeaturedImage != nil {
		img := p.FeaturedImage.toDomain()
		featured = &img
	}

	return domain.Product{
		ID:               p.ID,
		Handle:           p.Handle,
		Title:            p.Title,
		Description:      p.Description,
		DescriptionHTML:  p.DescriptionHTML,
		AvailableForSale: p.AvailableForSale,
		Options:          options,
		PriceRange: domain.PriceRange{
			MinVariantPrice: p.PriceRange.MinVariantPrice.toDomain(),
			MaxVariantPrice: p.PriceRange.MaxVariantPrice.toDomain(),
		},
		Variants:      variants,
		FeaturedImage: featured,
		Images:        images,
		SEO:           domain.SEO{Title: p.SEO.Title, Description: p.SEO.Description},
		Tags:          p.Tags,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toDomainOptions(opts []selectedOptionWire) []domain.SelectedOption {
	out := make([]domain.SelectedOption, 0, len(opts))
	for _, o := range opts {
		out = append(out, domain.SelectedOption{Name: o.Name, Value: o.Value})
	}
	return out
}

type collectionWire struct {
	Handle      string    `json:"handle"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SEO         seoWire   `json:"seo"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c collectionWire) toDomain() domain.Collection {
	return domain.Collection{
		Handle:      c.Handle,
		Title:       c.Title,
		Description: c.Description,
		SEO:         domain.SEO{Title: c.SEO.Title, Description: c.SEO.Description},
		UpdatedAt:   c.UpdatedAt,
	}
}

type merchandiseWire struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	SelectedOptions []selectedOptionWire `json:"selectedOptions"`
	Product         struct {
		ID            string     `json:"id"`
		Handle        string     `json:"handle"`
		Title         string     `json:"title"`
		FeaturedImage *imageWire `json:"featuredImage"`
	} `json:"product"`
}

type cartLineWire struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	Cost     struct {
		TotalAmount moneyWire `json:"totalAmount"`
	} `json:"cost"`
	Merchandise merchandiseWire `json:"merchandise"`
}

type cartWire struct {
	ID            string `json:"id"`
	CheckoutURL   string `json:"checkoutUrl"`
	TotalQuantity int    `json:"totalQuantity"`
	Cost          struct {
		SubtotalAmount moneyWire `json:"subtotalAmount"`
		TotalAmount    moneyWire `json:"totalAmount"`
		TotalTaxAmount moneyWire `json:"totalTaxAmount"`
	} `json:"cost"`
	Lines connection[cartLineWire] `json:"lines"`
}

func (c cartWire) toDomain() *domain.Cart {
	lines := make([]domain.CartLine, 0, len(c.Lines.Edges))
	for _, l := range c.Lines.flatten() {
		var featured *domain.Image
		if l.Merchandise.Product.FeaturedImage != nil {
			img := l.Merchandise.Product.FeaturedImage.toDomain()
			featured = &img
		}
		lines = append(lines, domain.CartLine{
			ID:       l.ID,
			Quantity: l.Quantity,
			Cost:     l.Cost.TotalAmount.toDomain(),
			Merchandise: domain.Merchandise{
				VariantID:       l.Merchandise.ID,
				Title:           l.Merchandise.Title,
				SelectedOptions: toDomainOptions(l.Merchandise.SelectedOptions),
				ProductID:       l.Merchandise.Product.ID,
				ProductHandle:   l.Merchandise.Product.Handle,
				ProductTitle:    l.Merchandise.Product.Title,
				FeaturedImage:   featured,
			},
		})
	}

	return &domain.Cart{
		ID:            c.ID,
		CheckoutURL:   c.CheckoutURL,
		TotalQuantity: c.TotalQuantity,
		Lines:         lines,
		Cost: domain.CartCost{
			SubtotalAmount: c.Cost.SubtotalAmount.toDomain(),
			TotalAmount:    c.Cost.TotalAmount.toDomain(),
			TotalTaxAmount: c.Cost.TotalTaxAmount.toDomain(),
		},
	}
}

type orderWire struct {
	ID                string    `json:"id"`
	OrderNumber       int       `json:"orderNumber"`
	ProcessedAt       time.Time `json:"processedAt"`
	FinancialStatus   string    `json:"financialStatus"`
	FulfillmentStatus string    `json:"fulfillmentStatus"`
	TotalPrice        moneyWire `json:"totalPrice"`
}

type customerWire struct {
	ID        string                `json:"id"`
	Email     string                `json:"email"`
	FirstName string                `json:"firstName"`
	LastName  string                `json:"lastName"`
	Phone     string                `json:"phone"`
	Orders    connection[orderWire] `json:"orders"`
}

func (c customerWire) toDomain() *domain.Customer {
	orders := make([]domain.Order, 0, len(c.Orders.Edges))
	for _, o := range c.Orders.flatten() {
		orders = append(orders, domain.Order{
			ID:                o.ID,
			OrderNumber:       o.OrderNumber,
			ProcessedAt:       o.ProcessedAt,
			FinancialStatus:   o.FinancialStatus,
			FulfillmentStatus: o.FulfillmentStatus,
			TotalPrice:        o.TotalPrice.toDomain(),
		})
	}
	return &domain.Customer{
		ID:        c.ID,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Phone:     c.Phone,
		Orders:    orders,
	}
}

// --- user errors ---

// UserError is a validation-level failure reported inside a successful
// mutation payload.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// CustomerUserError extends UserError with the platform's error code, which
// the auth flow inspects (e.g. UNIDENTIFIED_CUSTOMER).
type CustomerUserError struct {
	Code    string   `json:"code"`
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// UserErrorsError wraps mutation user errors as a Go error so cart operations
// have a single failure channel.
type UserErrorsError struct {
	Errors []UserError
}

func (e *UserErrorsError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ue := range e.Errors {
		msgs = append(msgs, ue.Message)
	}
	return "user errors: " + strings.Join(msgs, "; ")
}
