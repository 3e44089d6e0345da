package payment

import (
	"sync"

	"orderworks/internal/domain"
)

// SettingsSource supplies gateway credentials and the currency code. It is
// read exactly once, at first Load.
type SettingsSource interface {
	GatewaySecretKey() string
	GatewayPublicKey() string
	CurrencyCode() string
}

// Config is the process-wide payment configuration shared by every payment
// strategy. There is exactly one instance per process; its fields are set
// once and never mutated afterwards.
type Config struct {
	secretKey         string
	publicKey         string
	currency          string
	chargeDescription string
}

var (
	configMu sync.Mutex
	instance *Config
)

// Load returns the process-wide configuration, constructing it from src on
// first call. Subsequent calls return the existing instance and do not
// re-read src. A missing secret at first construction is fatal.
func Load(src SettingsSource) (*Config, error) {
	configMu.Lock()
	defer configMu.Unlock()
	if instance != nil {
		return instance, nil
	}
	secret := src.GatewaySecretKey()
	if secret == "" {
		return nil, domain.ErrMissingSecret
	}
	currency := src.CurrencyCode()
	if currency == "" {
		currency = "USD"
	}
	instance = &Config{
		secretKey:         secret,
		publicKey:         src.GatewayPublicKey(),
		currency:          currency,
		chargeDescription: "orderworks purchase",
	}
	return instance, nil
}

// ResetForTest clears the process-wide instance so tests can reload it
// between cases.
func ResetForTest() {
	configMu.Lock()
	instance = nil
	configMu.Unlock()
}

// GatewaySnapshot is a read-only view of the gateway credentials.
type GatewaySnapshot struct {
	SecretKey string
	PublicKey string
	Currency  string
}

// Gateway returns a read-only snapshot of the gateway configuration.
func (c *Config) Gateway() GatewaySnapshot {
	return GatewaySnapshot{
		SecretKey: c.secretKey,
		PublicKey: c.publicKey,
		Currency:  c.currency,
	}
}

// Currency returns the configured ISO currency code.
func (c *Config) Currency() string { return c.currency }

// ChargeDescription returns the default description attached to charges.
func (c *Config) ChargeDescription() string { return c.chargeDescription }
