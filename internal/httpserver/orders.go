package httpserver

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"orderworks/internal/domain"
	orderrepo "orderworks/internal/repository/order"
	ordersvc "orderworks/internal/service/order"
	"orderworks/internal/service/processing"
)

type orderLineRequest struct {
	Slug     string `json:"slug" binding:"required"`
	Quantity int    `json:"quantity"`
}

type couponRequest struct {
	Code   string `json:"code" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

type createOrderRequest struct {
	Tier            string             `json:"tier"`
	Items           []orderLineRequest `json:"items" binding:"required"`
	ShippingAddress string             `json:"shippingAddress" binding:"required"`
	BillingAddress  string             `json:"billingAddress"`
	Coupon          *couponRequest     `json:"coupon"`
	PaymentToken    string             `json:"paymentToken" binding:"required"`
}

type orderResponse struct {
	RefCode      string            `json:"refCode"`
	Total        string            `json:"total"`
	Lines        []orderLineView   `json:"lines"`
	OrderedAt    string            `json:"orderedAt"`
	Processing   processing.Result `json:"processing"`
}

type orderLineView struct {
	Title     string `json:"title"`
	Slug      string `json:"slug,omitempty"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
}

func toLineViews(lines []domain.OrderLine) []orderLineView {
	out := make([]orderLineView, 0, len(lines))
	for _, l := range lines {
		out = append(out, orderLineView{
			Title:     l.Title,
			Slug:      l.Slug,
			UnitPrice: l.UnitPrice.String(),
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal().String(),
		})
	}
	return out
}

func createOrderHandler(deps Deps, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "items, shippingAddress and paymentToken required"})
			return
		}
		customer := customerFrom(c)
		if customer == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		lines := make([]domain.OrderLine, 0, len(req.Items))
		for _, it := range req.Items {
			rec, err := deps.Items.GetBySlug(c.Request.Context(), it.Slug)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown item: " + it.Slug})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load item"})
				return
			}
			qty := it.Quantity
			if qty == 0 {
				qty = 1
			}
			lines = append(lines, domain.OrderLine{
				ItemID:    rec.ID,
				Title:     rec.Title,
				Slug:      rec.Slug,
				UnitPrice: priceOf(*rec),
				Quantity:  qty,
			})
		}

		b := ordersvc.NewBuilder().
			SetCustomer(customer).
			AddLines(lines).
			SetShippingAddress(req.ShippingAddress)
		if req.BillingAddress != "" {
			b.SetBillingAddress(req.BillingAddress)
		} else {
			b.UseSameBillingAddress()
		}
		if req.Coupon != nil {
			amount, err := decimal.NewFromString(req.Coupon.Amount)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coupon amount"})
				return
			}
			b.ApplyCoupon(domain.Coupon{Code: req.Coupon.Code, Amount: amount})
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

// submitOrder runs a built draft through the tier's service family and
// persists it when the charge succeeds.
func submitOrder(c *gin.Context, deps Deps, logger *log.Logger, draft domain.OrderDraft, tier, paymentToken, recipient string) {
	if tier == "" {
		tier = string(processing.TierStandard)
	}
	family, err := deps.Families.CreateFamily(processing.Tier(tier))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown service tier: " + tier})
		return
	}

	result := processing.NewProcessor(family, logger).Process(c.Request.Context(), draft, paymentToken, recipient)
	if !result.Success {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": result.Error})
		return
	}
	draft.Payment = &domain.PaymentRef{ID: result.Payment.ChargeID, Method: result.Payment.Processor}

	if _, err := deps.Orders.Save(c.Request.Context(), draft); err != nil {
		logger.Printf("api: save order ref=%s error=%v", draft.RefCode, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store order"})
		return
	}

	c.JSON(http.StatusCreated, orderResponse{
		RefCode:    draft.RefCode,
		Total:      draft.Total.String(),
		Lines:      toLineViews(draft.Lines),
		OrderedAt:  draft.OrderedAt.UTC().Format(time.RFC3339),
		Processing: result,
	})
}

func getOrderHandler(orders orderrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
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
		// Orders are only visible to the customer who placed them.
		if draft.Customer == nil || draft.Customer.Email != customer.Email {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusOK, draft)
	}
}

func listOrdersHandler(orders orderrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer := customerFrom(c)
		if customer == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		drafts, err := orders.ListByCustomer(c.Request.Context(), customer.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list orders"})
			return
		}
		if drafts == nil {
			drafts = []domain.OrderDraft{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": drafts, "count": len(drafts)})
	}
}
