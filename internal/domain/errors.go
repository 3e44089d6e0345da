package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnknownCategory is returned when no constructor is registered for a category tag.
	ErrUnknownCategory = errors.New("unknown catalog category")
	// ErrInvalidVariant is returned when a registered constructor does not produce a valid catalog item.
	ErrInvalidVariant = errors.New("invalid catalog variant")
	// ErrUnknownTemplate is returned on a template registry lookup miss.
	ErrUnknownTemplate = errors.New("unknown order template")
	// ErrSequence signals a builder call made out of order.
	ErrSequence = errors.New("call sequence violation")
	// ErrMissingSecret is returned when the gateway secret is absent at first
	// configuration load. Fatal, not retried.
	ErrMissingSecret = errors.New("gateway secret key is not configured")
)

// ValidationError aggregates every missing-field violation found while
// building an order, not just the first.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "cannot build order: " + strings.Join(e.Violations, ", ")
}

// GatewayError is a terminal failure reported by the payment gateway for one
// call. The core assumes nothing about the gateway's error taxonomy beyond
// the message.
type GatewayError struct {
	Message string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway: %s", e.Message)
}

// TransportError is a delivery failure reported by the notification
// transport. It is captured and reported, never propagated.
type TransportError struct {
	Message string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s", e.Message)
}
