package httpserver

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"orderworks/internal/domain"
	catalogrepo "orderworks/internal/repository/catalogitem"
	"orderworks/internal/service/catalog"
)

type createItemRequest struct {
	Category   string                 `json:"category" binding:"required"`
	Attributes map[string]interface{} `json:"attributes" binding:"required"`
}

type itemResponse struct {
	ID            string                 `json:"id"`
	Category      string                 `json:"category"`
	Title         string                 `json:"title"`
	Description   string                 `json:"description,omitempty"`
	Slug          string                 `json:"slug"`
	BasePrice     string                 `json:"basePrice"`
	DiscountPrice *string                `json:"discountPrice,omitempty"`
	Price         string                 `json:"price"`
	Attributes    map[string]interface{} `json:"attributes"`
	CreatedAt     time.Time              `json:"createdAt"`
}

func toItemResponse(rec catalogrepo.Record) itemResponse {
	price := rec.BasePrice
	var discount *string
	if rec.DiscountPrice != nil {
		s := rec.DiscountPrice.String()
		discount = &s
		price = *rec.DiscountPrice
	}
	attrs := rec.Attributes
	if attrs == nil {
		attrs = map[string]interface{}{}
	}
	return itemResponse{
		ID:            rec.ID,
		Category:      rec.Category,
		Title:         rec.Title,
		Description:   rec.Description,
		Slug:          rec.Slug,
		BasePrice:     rec.BasePrice.String(),
		DiscountPrice: discount,
		Price:         price.String(),
		Attributes:    attrs,
		CreatedAt:     rec.CreatedAt,
	}
}

// coreAttributeKeys are consumed by the item core rather than stored as
// variant attributes.
var coreAttributeKeys = map[string]bool{
	"title":          true,
	"description":    true,
	"price":          true,
	"discount_price": true,
	"slug":           true,
}

func recordFromItem(item domain.CatalogItem, tag string, attrs map[string]interface{}) catalogrepo.Record {
	core := item.Core()
	variantAttrs := map[string]interface{}{}
	for k, v := range attrs {
		if !coreAttributeKeys[k] {
			variantAttrs[k] = v
		}
	}
	rec := catalogrepo.Record{
		ID:          core.ID,
		Category:    tag,
		Title:       core.Title,
		Description: core.Description,
		Slug:        core.Slug,
		BasePrice:   core.BasePrice,
		Attributes:  variantAttrs,
	}
	if core.DiscountPrice != nil {
		d := *core.DiscountPrice
		rec.DiscountPrice = &d
	}
	return rec
}

func itemFromRecord(f *catalog.Factory, rec catalogrepo.Record) (domain.CatalogItem, error) {
	attrs := catalog.Attributes{
		"title":       rec.Title,
		"description": rec.Description,
		"slug":        rec.Slug,
		"price":       rec.BasePrice,
	}
	if rec.DiscountPrice != nil {
		attrs["discount_price"] = *rec.DiscountPrice
	}
	for k, v := range rec.Attributes {
		attrs[k] = v
	}
	return f.Create(rec.Category, attrs)
}

func categoriesHandler(f *catalog.Factory) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"categories": f.Categories()})
	}
}

func listItemsHandler(items catalogrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := items.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list items"})
			return
		}
		out := make([]itemResponse, 0, len(records))
		for _, rec := range records {
			out = append(out, toItemResponse(rec))
		}
		c.JSON(http.StatusOK, gin.H{"items": out, "count": len(out)})
	}
}

func getItemHandler(items catalogrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := items.GetBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load item"})
			return
		}
		c.JSON(http.StatusOK, toItemResponse(*rec))
	}
}

func createItemHandler(f *catalog.Factory, items catalogrepo.Repository, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "category and attributes required"})
			return
		}
		item, err := f.Create(req.Category, catalog.Attributes(req.Attributes))
		if err != nil {
			if errors.Is(err, domain.ErrUnknownCategory) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		rec, err := items.Upsert(c.Request.Context(), recordFromItem(item, req.Category, req.Attributes))
		if err != nil {
			logger.Printf("api: create item category=%s error=%v", req.Category, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store item"})
			return
		}
		c.JSON(http.StatusCreated, toItemResponse(*rec))
	}
}

func createVariationHandler(f *catalog.Factory, items catalogrepo.Repository, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var overrides map[string]interface{}
		if err := c.ShouldBindJSON(&overrides); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
			return
		}
		source, err := items.GetBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load item"})
			return
		}
		item, err := itemFromRecord(f, *source)
		if err != nil {
			logger.Printf("api: rebuild item slug=%s error=%v", source.Slug, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not rebuild item"})
			return
		}
		// A retitled variation gets a fresh slug unless one was supplied.
		if title, ok := overrides["title"].(string); ok && title != "" {
			if _, hasSlug := overrides["slug"]; !hasSlug {
				overrides["slug"] = domain.Slugify(title)
			}
		}
		variant, err := catalog.Variation(item, overrides)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		rec := recordFromItem(variant, source.Category, source.Attributes)
		if rec.Slug == source.Slug {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "variation must change title or slug"})
			return
		}
		stored, err := items.Upsert(c.Request.Context(), rec)
		if err != nil {
			logger.Printf("api: store variation slug=%s error=%v", rec.Slug, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store variation"})
			return
		}
		c.JSON(http.StatusCreated, toItemResponse(*stored))
	}
}

func priceOf(rec catalogrepo.Record) decimal.Decimal {
	if rec.DiscountPrice != nil {
		return *rec.DiscountPrice
	}
	return rec.BasePrice
}
