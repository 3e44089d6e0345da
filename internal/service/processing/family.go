package processing

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"orderworks/internal/service/notification"
	"orderworks/internal/service/payment"
	"orderworks/internal/service/shipping"
)

// ErrUnknownTier is returned when no family is registered for a tier.
var ErrUnknownTier = errors.New("unknown service tier")

// Tier selects one matched set of collaborating services.
type Tier string

const (
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
)

// ServiceFamily is a matched triple of payment, shipping and notification
// strategies. Members are always constructed together, never mixed across
// tiers.
type ServiceFamily struct {
	Payment      payment.Strategy
	Shipping     shipping.Strategy
	Notification notification.Strategy
}

// FamilyFactory builds service families per tier. Selection is table-driven:
// adding a tier is one RegisterTier call, existing tiers stay untouched.
type FamilyFactory struct {
	mu       sync.RWMutex
	builders map[Tier]func() ServiceFamily
}

// NewFamilyFactory wires the two built-in tiers around the shared payment
// configuration and the external gateway and mail collaborators.
func NewFamilyFactory(cfg *payment.Config, gateway payment.GatewayClient, transport notification.Transport, fromEmail string) *FamilyFactory {
	f := &FamilyFactory{builders: map[Tier]func() ServiceFamily{}}
	f.builders[TierStandard] = func() ServiceFamily {
		return ServiceFamily{
			Payment:      payment.NewStripe(cfg, gateway),
			Shipping:     shipping.NewStandard(),
			Notification: notification.NewEmail(transport, fromEmail),
		}
	}
	f.builders[TierPremium] = func() ServiceFamily {
		return ServiceFamily{
			Payment:      payment.NewPayPal(cfg),
			Shipping:     shipping.NewExpress(),
			Notification: notification.NewEmail(transport, fromEmail),
		}
	}
	return f
}

// CreateFamily returns a fully populated family for the tier.
func (f *FamilyFactory) CreateFamily(tier Tier) (ServiceFamily, error) {
	f.mu.RLock()
	build, ok := f.builders[tier]
	f.mu.RUnlock()
	if !ok {
		return ServiceFamily{}, fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}
	return build(), nil
}

// RegisterTier adds or replaces the family constructor for a tier.
func (f *FamilyFactory) RegisterTier(tier Tier, build func() ServiceFamily) {
	f.mu.Lock()
	f.builders[tier] = build
	f.mu.Unlock()
}

// Tiers returns the registered tiers, sorted.
func (f *FamilyFactory) Tiers() []Tier {
	f.mu.RLock()
	defer f.mu.RUnlock()
	tiers := make([]Tier, 0, len(f.builders))
	for tier := range f.builders {
		tiers = append(tiers, tier)
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i] < tiers[j] })
	return tiers
}
