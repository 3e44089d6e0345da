package shipping

import (
	"github.com/shopspring/decimal"
)

// Strategy quotes shipping for one order. Weight and distance are optional;
// a method may ignore either.
type Strategy interface {
	Cost(weight, distance *decimal.Decimal) decimal.Decimal
	DeliveryTime() string
	MethodName() string
}

// Standard ships free with the slow estimate.
type Standard struct{}

func NewStandard() *Standard { return &Standard{} }

func (Standard) Cost(_, _ *decimal.Decimal) decimal.Decimal { return decimal.Zero }
func (Standard) DeliveryTime() string                       { return "5-7 business days" }
func (Standard) MethodName() string                         { return "Standard Shipping" }

// Express charges a flat base plus a per-weight surcharge when a weight is
// supplied.
type Express struct {
	base         decimal.Decimal
	perWeight    decimal.Decimal
	deliveryTime string
}

func NewExpress() *Express {
	return &Express{
		base:         decimal.RequireFromString("15.00"),
		perWeight:    decimal.RequireFromString("1.00"),
		deliveryTime: "1-2 business days",
	}
}

func (e *Express) Cost(weight, _ *decimal.Decimal) decimal.Decimal {
	cost := e.base
	if weight != nil {
		cost = cost.Add(weight.Mul(e.perWeight))
	}
	return cost
}

func (e *Express) DeliveryTime() string { return e.deliveryTime }
func (e *Express) MethodName() string   { return "Express Shipping" }
