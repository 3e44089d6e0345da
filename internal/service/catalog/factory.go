package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"orderworks/internal/domain"
)

// Attributes carries the raw field set used to construct a catalog item.
// Values typically arrive from decoded JSON, so numeric fields may be
// float64, int, string or decimal.Decimal.
type Attributes map[string]interface{}

// Constructor builds one catalog variant from raw attributes.
type Constructor func(Attributes) (domain.CatalogItem, error)

// Factory maps category tags to variant constructors. The mapping is open:
// new categories can be registered without touching existing ones.
type Factory struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewFactory returns a factory with the built-in categories registered.
func NewFactory() *Factory {
	f := &Factory{constructors: map[string]Constructor{}}
	f.constructors["book"] = newBook
	f.constructors["electronics"] = newElectronics
	f.constructors["clothing"] = newClothing
	return f
}

// Create looks up the constructor registered for tag and applies it.
func (f *Factory) Create(tag string, attrs Attributes) (domain.CatalogItem, error) {
	f.mu.RLock()
	ctor, ok := f.constructors[tag]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, tag)
	}
	item, err := ctor(attrs)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: constructor for %q produced no item", domain.ErrInvalidVariant, tag)
	}
	return item, nil
}

// Register adds or overrides the constructor for tag.
func (f *Factory) Register(tag string, ctor Constructor) error {
	if ctor == nil {
		return fmt.Errorf("%w: nil constructor for %q", domain.ErrInvalidVariant, tag)
	}
	f.mu.Lock()
	f.constructors[tag] = ctor
	f.mu.Unlock()
	return nil
}

// Categories returns the registered tags, sorted.
func (f *Factory) Categories() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	tags := make([]string, 0, len(f.constructors))
	for tag := range f.constructors {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func newBook(a Attributes) (domain.CatalogItem, error) {
	core, err := coreFrom(a)
	if err != nil {
		return nil, err
	}
	b := &domain.Book{
		ItemCore: core,
		Author:   a.text("author"),
		Pages:    a.integer("pages"),
		ISBN:     a.text("isbn"),
	}
	if b.ISBN == "" {
		title := core.Title
		if len(title) > 10 {
			title = title[:10]
		}
		b.ISBN = "ISBN-" + title
	}
	return b, nil
}

func newElectronics(a Attributes) (domain.CatalogItem, error) {
	core, err := coreFrom(a)
	if err != nil {
		return nil, err
	}
	return &domain.Electronics{
		ItemCore:       core,
		Brand:          a.text("brand"),
		WarrantyMonths: a.integer("warranty_months"),
	}, nil
}

func newClothing(a Attributes) (domain.CatalogItem, error) {
	core, err := coreFrom(a)
	if err != nil {
		return nil, err
	}
	return &domain.Clothing{
		ItemCore: core,
		Size:     a.text("size"),
		Color:    a.text("color"),
		Material: a.text("material"),
	}, nil
}

func coreFrom(a Attributes) (domain.ItemCore, error) {
	title := a.text("title")
	if title == "" {
		return domain.ItemCore{}, errors.New("title required")
	}
	price, err := a.amount("price")
	if err != nil {
		return domain.ItemCore{}, err
	}
	if price.IsNegative() {
		return domain.ItemCore{}, fmt.Errorf("price %s must not be negative", price)
	}
	core := domain.NewItemCore(title, a.text("description"), price)
	if _, ok := a["discount_price"]; ok {
		discount, err := a.amount("discount_price")
		if err != nil {
			return domain.ItemCore{}, err
		}
		if err := core.SetDiscountPrice(discount); err != nil {
			return domain.ItemCore{}, err
		}
	}
	if slug := a.text("slug"); slug != "" {
		core.Slug = slug
	}
	return core, nil
}

func (a Attributes) text(key string) string {
	if v, ok := a[key].(string); ok {
		return v
	}
	return ""
}

func (a Attributes) integer(key string) int {
	switch v := a[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func (a Attributes) amount(key string) (decimal.Decimal, error) {
	switch v := a[key].(type) {
	case decimal.Decimal:
		return v, nil
	case string:
		return decimal.NewFromString(v)
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case nil:
		return decimal.Decimal{}, fmt.Errorf("attribute %q required", key)
	default:
		return decimal.Decimal{}, fmt.Errorf("attribute %q has unsupported type %T", key, v)
	}
}
