package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogItem is the capability set every catalog variant must satisfy.
// Items are created by the catalog factory and treated as read-only
// afterwards, except for the discount price.
type CatalogItem interface {
	// Category returns the short category tag, e.g. "BK".
	Category() string
	// CategoryLabel returns the human-readable category name, e.g. "Books".
	CategoryLabel() string
	// Details returns the structured detail payload for the variant.
	Details() map[string]interface{}
	// Core exposes the fields shared by every variant.
	Core() *ItemCore
	// Clone returns an independent copy registered under a fresh ID.
	Clone() CatalogItem
}

// ItemCore carries the fields shared by every catalog variant.
type ItemCore struct {
	ID            string
	Title         string
	Description   string
	BasePrice     decimal.Decimal
	DiscountPrice *decimal.Decimal
	Slug          string
}

// NewItemCore builds the shared portion of a catalog item. The slug is
// derived from the title: lowercase, spaces to hyphens.
func NewItemCore(title, description string, basePrice decimal.Decimal) ItemCore {
	return ItemCore{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		BasePrice:   basePrice,
		Slug:        Slugify(title),
	}
}

// Slugify derives a URL slug from a title.
func Slugify(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "-")
}

// Core lets embedding variants satisfy the CatalogItem interface.
func (c *ItemCore) Core() *ItemCore { return c }

// Price returns the discount price when one is set, the base price otherwise.
func (c *ItemCore) Price() decimal.Decimal {
	if c.DiscountPrice != nil {
		return *c.DiscountPrice
	}
	return c.BasePrice
}

// SetDiscountPrice sets the only field that may change after creation.
// The discount must be non-negative and strictly below the base price.
func (c *ItemCore) SetDiscountPrice(p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThanOrEqual(c.BasePrice) {
		return fmt.Errorf("discount price %s must be in [0, %s)", p, c.BasePrice)
	}
	c.DiscountPrice = &p
	return nil
}

func (c *ItemCore) clone() ItemCore {
	dup := *c
	dup.ID = uuid.NewString()
	if c.DiscountPrice != nil {
		d := *c.DiscountPrice
		dup.DiscountPrice = &d
	}
	return dup
}

// Book is the printed-matter catalog variant.
type Book struct {
	ItemCore
	Author string
	Pages  int
	ISBN   string
}

func (b *Book) Category() string      { return "BK" }
func (b *Book) CategoryLabel() string { return "Books" }

func (b *Book) Details() map[string]interface{} {
	return map[string]interface{}{
		"type":     "Book",
		"author":   b.Author,
		"pages":    b.Pages,
		"isbn":     b.ISBN,
		"price":    b.Price().String(),
		"category": b.CategoryLabel(),
	}
}

func (b *Book) Clone() CatalogItem {
	dup := *b
	dup.ItemCore = b.ItemCore.clone()
	return &dup
}

// Electronics is the consumer-electronics catalog variant.
type Electronics struct {
	ItemCore
	Brand          string
	WarrantyMonths int
}

func (e *Electronics) Category() string      { return "EL" }
func (e *Electronics) CategoryLabel() string { return "Electronics" }

func (e *Electronics) Details() map[string]interface{} {
	return map[string]interface{}{
		"type":     "Electronics",
		"brand":    e.Brand,
		"warranty": fmt.Sprintf("%d months", e.WarrantyMonths),
		"price":    e.Price().String(),
		"category": e.CategoryLabel(),
	}
}

func (e *Electronics) Clone() CatalogItem {
	dup := *e
	dup.ItemCore = e.ItemCore.clone()
	return &dup
}

// Clothing is the apparel catalog variant.
type Clothing struct {
	ItemCore
	Size     string
	Color    string
	Material string
}

func (c *Clothing) Category() string      { return "CL" }
func (c *Clothing) CategoryLabel() string { return "Clothing" }

func (c *Clothing) Details() map[string]interface{} {
	return map[string]interface{}{
		"type":     "Clothing",
		"size":     c.Size,
		"color":    c.Color,
		"material": c.Material,
		"price":    c.Price().String(),
		"category": c.CategoryLabel(),
	}
}

func (c *Clothing) Clone() CatalogItem {
	dup := *c
	dup.ItemCore = c.ItemCore.clone()
	return &dup
}
