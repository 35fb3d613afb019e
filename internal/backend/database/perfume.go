package database

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Perfume struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	SubCategory *string         `json:"sub_category"`
	ImagePath   *string         `json:"image_path"` // relative path into the blob store, nil when no image
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// PerfumeFields holds the user editable columns of a perfume.
type PerfumeFields struct {
	Name        string
	Brand       string
	Description string
	Price       decimal.Decimal
	Category    string
	SubCategory *string
}

// HasImage reports whether the perfume points at a blob.
func (p *Perfume) HasImage() bool {
	return p.ImagePath != nil && *p.ImagePath != ""
}

// FormattedPrice renders the price as "$1,234.50".
func (p *Perfume) FormattedPrice() string {
	fixed := p.Price.StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	negative := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}

	prefix := "$"
	if negative {
		prefix = "-$"
	}
	return prefix + b.String() + "." + fracPart
}

// DisplayCategory joins category and sub-category, e.g. "Floral - Rose".
func (p *Perfume) DisplayCategory() string {
	if p.SubCategory != nil && *p.SubCategory != "" {
		return p.Category + " - " + *p.SubCategory
	}
	return p.Category
}

func (p *Perfume) clone() *Perfume {
	c := *p
	if p.SubCategory != nil {
		s := *p.SubCategory
		c.SubCategory = &s
	}
	if p.ImagePath != nil {
		s := *p.ImagePath
		c.ImagePath = &s
	}
	return &c
}

// normalizePrice stores prices with two fractional digits.
func normalizePrice(price decimal.Decimal) decimal.Decimal {
	return price.Round(2)
}
