package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"orderworks/internal/domain"
	orderrepo "orderworks/internal/repository/order"
	ordersvc "orderworks/internal/service/order"
	"orderworks/internal/service/template"
)

type templateItemRequest struct {
	Name      string `json:"name" binding:"required"`
	UnitPrice string `json:"unitPrice" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type registerTemplateRequest struct {
	Name            string                 `json:"name" binding:"required"`
	Customer        string                 `json:"customer"`
	Items           []templateItemRequest  `json:"items" binding:"required"`
	ShippingAddress string                 `json:"shippingAddress"`
	BillingAddress  string                 `json:"billingAddress"`
	Preferences     map[string]interface{} `json:"preferences"`
}

type templateOrderRequest struct {
	Tier            string `json:"tier"`
	PaymentToken    string `json:"paymentToken" binding:"required"`
	ShippingAddress string `json:"shippingAddress"`
}

type templateFromOrderRequest struct {
	Name string `json:"name" binding:"required"`
}

func listTemplatesHandler(registry *template.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"templates": registry.List()})
	}
}

func registerTemplateHandler(registry *template.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerTemplateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and items required"})
			return
		}
		items := make([]domain.TemplateItem, 0, len(req.Items))
		for _, it := range req.Items {
			price, err := decimal.NewFromString(it.UnitPrice)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit price for " + it.Name})
				return
			}
			qty := it.Quantity
			if qty == 0 {
				qty = 1
			}
			items = append(items, domain.TemplateItem{Name: it.Name, UnitPrice: price, Quantity: qty})
		}
		var tplCustomer *domain.Customer
		if req.Customer != "" {
			tplCustomer = &domain.Customer{Email: req.Customer}
		}
		registry.Register(req.Name, &domain.OrderTemplate{
			Customer:        tplCustomer,
			Items:           items,
			ShippingAddress: req.ShippingAddress,
			BillingAddress:  req.BillingAddress,
			Preferences:     req.Preferences,
		})
		c.JSON(http.StatusCreated, gin.H{"name": req.Name})
	}
}

func removeTemplateHandler(registry *template.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		registry.Remove(c.Param("name"))
		c.Status(http.StatusNoContent)
	}
}

// templateOrderHandler instantiates a named template and submits the result
// through the normal order pipeline.
func templateOrderHandler(deps Deps, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req templateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "paymentToken required"})
			return
		}
		customer := customerFrom(c)
		if customer == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		tpl, err := deps.Templates.Instantiate(c.Param("name"))
		if err != nil {
			if errors.Is(err, domain.ErrUnknownTemplate) {
				c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not instantiate template"})
			return
		}

		shipping := req.ShippingAddress
		if shipping == "" {
			shipping = tpl.ShippingAddress
		}
		b := ordersvc.NewBuilder().
			SetCustomer(customer).
			AddLines(template.Lines(tpl)).
			SetShippingAddress(shipping)
		if tpl.BillingAddress != "" {
			b.SetBillingAddress(tpl.BillingAddress)
		} else {
			b.UseSameBillingAddress()
		}
		draft, err := b.GenerateRefCode().Build()
		if err != nil {
			var vErr *domain.ValidationError
			if errors.As(err, &vErr) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": vErr.Error(), "violations": vErr.Violations})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		submitOrder(c, deps, logger, draft, req.Tier, req.PaymentToken, customer.Email)
	}
}

// templateFromOrderHandler snapshots an existing order as a reusable
// template.
func templateFromOrderHandler(orders orderrepo.Repository, registry *template.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req templateFromOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
			return
		}
		customer := customerFrom(c)
		if customer == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		draft, err := orders.GetByRefCode(c.Request.Context(), c.Param("refCode"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load order"})
			return
		}
		if draft.Customer == nil || draft.Customer.Email != customer.Email {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		registry.Register(req.Name, template.FromDraft(*draft))
		c.JSON(http.StatusCreated, gin.H{"name": req.Name})
	}
}
