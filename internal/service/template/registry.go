package template

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"orderworks/internal/domain"
)

// Registry stores named order templates and hands out independent deep
// copies on request. It is safe for concurrent use; every Instantiate
// performs its own copy, so concurrently issued instances never share
// nested state.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*domain.OrderTemplate
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{templates: map[string]*domain.OrderTemplate{}}
}

// Register stores a copy of tpl under name. An existing entry with the same
// name is silently overwritten.
func (r *Registry) Register(name string, tpl *domain.OrderTemplate) {
	clone := tpl.Clone()
	r.mu.Lock()
	r.templates[name] = clone
	r.mu.Unlock()
}

// Instantiate returns a fully independent copy of the named template.
func (r *Registry) Instantiate(name string) (*domain.OrderTemplate, error) {
	r.mu.RLock()
	tpl, ok := r.templates[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTemplate, name)
	}
	return tpl.Clone(), nil
}

// Update replaces an existing template. Unlike Register it requires the
// name to be present already.
func (r *Registry) Update(name string, tpl *domain.OrderTemplate) error {
	clone := tpl.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[name]; !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownTemplate, name)
	}
	r.templates[name] = clone
	return nil
}

// Remove deletes the named template. Removing an absent name is a no-op.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	delete(r.templates, name)
	r.mu.Unlock()
}

// List returns the registered template names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FromDraft captures a completed order as a template: customer, flattened
// lines, both addresses, and the coupon code (if any) in the preference
// map. The snapshot is one-way; later changes to the order are not
// reflected.
func FromDraft(draft domain.OrderDraft) *domain.OrderTemplate {
	items := make([]domain.TemplateItem, 0, len(draft.Lines))
	for _, line := range draft.Lines {
		items = append(items, domain.TemplateItem{
			Name:      line.Title,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}
	tpl := &domain.OrderTemplate{
		Customer:        draft.Customer,
		Items:           items,
		ShippingAddress: draft.ShippingAddress,
		BillingAddress:  draft.BillingAddress,
		Preferences:     map[string]interface{}{},
		CreatedAt:       time.Now().UTC(),
	}
	if draft.Coupon != nil {
		tpl.Preferences["coupon_code"] = draft.Coupon.Code
	}
	return tpl
}

// Lines converts a template's flattened items back into builder-ready order
// lines for a repeat order.
func Lines(tpl *domain.OrderTemplate) []domain.OrderLine {
	lines := make([]domain.OrderLine, 0, len(tpl.Items))
	for _, item := range tpl.Items {
		lines = append(lines, domain.OrderLine{
			Title:     item.Name,
			Slug:      domain.Slugify(item.Name),
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	return lines
}
