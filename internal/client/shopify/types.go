package shopify

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/domain"
)

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

type money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

type image struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

func (i *image) toDomain() *domain.Image {
	if i == nil || i.URL == "" {
		return nil
	}
	return &domain.Image{URL: i.URL, AltText: i.AltText}
}

type metafield struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type variantNode struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	SKU              string   `json:"sku"`
	AvailableForSale bool     `json:"availableForSale"`
	Price            money    `json:"price"`
	CompareAtPrice   *money   `json:"compareAtPrice"`
	Weight           *float64 `json:"weight"`
	WeightUnit       string   `json:"weightUnit"`
}

func (v variantNode) toDomain() domain.Variant {
	out := domain.Variant{
		ID:               v.ID,
		Title:            v.Title,
		SKU:              v.SKU,
		Price:            v.Price.Amount,
		AvailableForSale: v.AvailableForSale,
		WeightUnit:       domain.WeightUnit(v.WeightUnit),
	}
	if v.CompareAtPrice != nil {
		cmp := v.CompareAtPrice.Amount
		out.CompareAtPrice = &cmp
	}
	if v.Weight != nil {
		out.Weight = decimal.NewFromFloat(*v.Weight)
	}
	return out
}

type productNode struct {
	ID               string    `json:"id"`
	Handle           string    `json:"handle"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	ProductType      string    `json:"productType"`
	Vendor           string    `json:"vendor"`
	Tags             []string  `json:"tags"`
	CreatedAt        time.Time `json:"createdAt"`
	AvailableForSale bool      `json:"availableForSale"`
	FeaturedImage    *image    `json:"featuredImage"`
	Images           struct {
		Nodes []image `json:"nodes"`
	} `json:"images"`
	PriceRange struct {
		MinVariantPrice money `json:"minVariantPrice"`
		MaxVariantPrice money `json:"maxVariantPrice"`
	} `json:"priceRange"`
	Collections struct {
		Nodes []struct {
			Handle string `json:"handle"`
		} `json:"nodes"`
	} `json:"collections"`
	Variants struct {
		Nodes []variantNode `json:"nodes"`
	} `json:"variants"`
	// Missing metafields come back as null entries.
	Metafields []*metafield `json:"metafields"`
}

type productsData struct {
	Products struct {
		PageInfo pageInfo      `json:"pageInfo"`
		Nodes    []productNode `json:"nodes"`
	} `json:"products"`
}

// parsePricePerKg reads the first number in a price_per_kg metafield.
// Unparseable or non-positive values mean the product is not sold by weight.
func parsePricePerKg(raw string) *decimal.Decimal {
	vals := domain.NormalizeMetafield(raw)
	if len(vals) == 0 {
		return nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(vals[0]))
	if err != nil || !d.IsPositive() {
		return nil
	}
	return &d
}

func (n productNode) toDomain(position int) domain.Product {
	p := domain.Product{
		ID:               n.ID,
		Handle:           n.Handle,
		Title:            n.Title,
		Description:      n.Description,
		ProductType:      n.ProductType,
		Vendor:           n.Vendor,
		Tags:             n.Tags,
		PriceMin:         n.PriceRange.MinVariantPrice.Amount,
		PriceMax:         n.PriceRange.MaxVariantPrice.Amount,
		CurrencyCode:     n.PriceRange.MinVariantPrice.CurrencyCode,
		AvailableForSale: n.AvailableForSale,
		CreatedAt:        n.CreatedAt,
		Position:         position,
	}

	seen := make(map[string]bool)
	if img := n.FeaturedImage.toDomain(); img != nil {
		p.Images = append(p.Images, *img)
		seen[img.URL] = true
	}
	for i := range n.Images.Nodes {
		if img := n.Images.Nodes[i].toDomain(); img != nil && !seen[img.URL] {
			p.Images = append(p.Images, *img)
			seen[img.URL] = true
		}
	}

	for _, c := range n.Collections.Nodes {
		p.Collections = append(p.Collections, c.Handle)
	}
	for _, v := range n.Variants.Nodes {
		p.Variants = append(p.Variants, v.toDomain())
	}

	raw := make(map[string]string, len(n.Metafields))
	for _, m := range n.Metafields {
		if m != nil {
			raw[m.Key] = m.Value
		}
	}
	p.ApplyFacetMetafields(raw)
	p.PricePerKg = parsePricePerKg(raw[domain.MetafieldPricePerKg])
	return p
}

type cartAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type cartLineNode struct {
	ID         string          `json:"id"`
	Quantity   int             `json:"quantity"`
	Attributes []cartAttribute `json:"attributes"`
	// Merchandise is always a ProductVariant on the Storefront API today.
	Merchandise struct {
		ID         string   `json:"id"`
		Title      string   `json:"title"`
		Weight     *float64 `json:"weight"`
		WeightUnit string   `json:"weightUnit"`
		Price      money    `json:"price"`
		Image      *image   `json:"image"`
		Product    struct {
			ID            string     `json:"id"`
			Handle        string     `json:"handle"`
			Title         string     `json:"title"`
			FeaturedImage *image     `json:"featuredImage"`
			PricePerKg    *metafield `json:"pricePerKg"`
		} `json:"product"`
	} `json:"merchandise"`
}

func (n cartLineNode) toDomain() domain.CartLine {
	m := n.Merchandise
	variant := variantNode{ID: m.ID, Title: m.Title, Price: m.Price, Weight: m.Weight, WeightUnit: m.WeightUnit}.toDomain()

	var pricePerKg *decimal.Decimal
	if m.Product.PricePerKg != nil {
		pricePerKg = parsePricePerKg(m.Product.PricePerKg.Value)
	}

	line := domain.CartLine{
		ID:            n.ID,
		MerchandiseID: m.ID,
		ProductID:     m.Product.ID,
		ProductHandle: m.Product.Handle,
		Title:         m.Product.Title,
		Quantity:      n.Quantity,
		Price:         domain.PriceLine(pricePerKg, variant, n.Quantity),
	}
	if m.Title != "Default Title" {
		line.VariantTitle = m.Title
	}
	line.Image = m.Image.toDomain()
	if line.Image == nil {
		line.Image = m.Product.FeaturedImage.toDomain()
	}
	for _, a := range n.Attributes {
		line.Attributes = append(line.Attributes, domain.Attribute{Key: a.Key, Value: a.Value})
	}
	return line
}

type cartNode struct {
	ID            string    `json:"id"`
	CheckoutURL   string    `json:"checkoutUrl"`
	TotalQuantity int       `json:"totalQuantity"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Cost          struct {
		SubtotalAmount money `json:"subtotalAmount"`
		TotalAmount    money `json:"totalAmount"`
	} `json:"cost"`
	Lines struct {
		Nodes []cartLineNode `json:"nodes"`
	} `json:"lines"`
}

func (n *cartNode) toDomain() *domain.Cart {
	c := &domain.Cart{
		ID:            n.ID,
		CheckoutURL:   n.CheckoutURL,
		TotalQuantity: n.TotalQuantity,
		Subtotal:      n.Cost.SubtotalAmount.Amount,
		Total:         n.Cost.TotalAmount.Amount,
		CurrencyCode:  n.Cost.TotalAmount.CurrencyCode,
		UpdatedAt:     n.UpdatedAt,
		Lines:         make([]domain.CartLine, 0, len(n.Lines.Nodes)),
	}
	for _, l := range n.Lines.Nodes {
		c.Lines = append(c.Lines, l.toDomain())
	}
	return c
}

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
	Code    string   `json:"code"`
}

// cartPayload is the shape shared by every cart mutation.
type cartPayload struct {
	Cart       *cartNode   `json:"cart"`
	UserErrors []userError `json:"userErrors"`
}

type cartLineInput struct {
	MerchandiseID string          `json:"merchandiseId"`
	Quantity      int             `json:"quantity"`
	Attributes    []cartAttribute `json:"attributes,omitempty"`
}

func toLineInputs(lines []domain.LineInput) []cartLineInput {
	out := make([]cartLineInput, 0, len(lines))
	for _, l := range lines {
		in := cartLineInput{MerchandiseID: l.MerchandiseID, Quantity: l.Quantity}
		for _, a := range l.Attributes {
			in.Attributes = append(in.Attributes, cartAttribute{Key: a.Key, Value: a.Value})
		}
		out = append(out, in)
	}
	return out
}

type cartLineUpdateInput struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}
