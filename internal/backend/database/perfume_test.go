package database

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPerfume_FormattedPrice(t *testing.T) {
	tests := []struct {
		price    string
		expected string
	}{
		{price: "0", expected: "$0.00"},
		{price: "5.5", expected: "$5.50"},
		{price: "150", expected: "$150.00"},
		{price: "999.99", expected: "$999.99"},
		{price: "1234.5", expected: "$1,234.50"},
		{price: "1234567.891", expected: "$1,234,567.89"},
	}

	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			p := &Perfume{Price: decimal.RequireFromString(tt.price)}
			if got := p.FormattedPrice(); got != tt.expected {
				t.Errorf("FormattedPrice() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestPerfume_DisplayCategory(t *testing.T) {
	rose := "Rose"
	empty := ""

	tests := []struct {
		name        string
		subCategory *string
		expected    string
	}{
		{name: "with sub category", subCategory: &rose, expected: "Floral - Rose"},
		{name: "nil sub category", subCategory: nil, expected: "Floral"},
		{name: "empty sub category", subCategory: &empty, expected: "Floral"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Perfume{Category: "Floral", SubCategory: tt.subCategory}
			if got := p.DisplayCategory(); got != tt.expected {
				t.Errorf("DisplayCategory() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestPerfume_HasImage(t *testing.T) {
	path := "perfumes/a.png"
	empty := ""
	if (&Perfume{}).HasImage() {
		t.Errorf("expected no image for nil path")
	}
	if (&Perfume{ImagePath: &empty}).HasImage() {
		t.Errorf("expected no image for empty path")
	}
	if !(&Perfume{ImagePath: &path}).HasImage() {
		t.Errorf("expected image for %q", path)
	}
}

func TestPerfume_CloneIsDeep(t *testing.T) {
	sub := "Rose"
	p := &Perfume{SubCategory: &sub}
	c := p.clone()
	*c.SubCategory = "Jasmine"
	if *p.SubCategory != "Rose" {
		t.Errorf("clone shares sub category pointer with original")
	}
}
