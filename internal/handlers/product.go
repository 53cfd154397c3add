package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/emgimbal/shop/internal/es"
	"github.com/emgimbal/shop/internal/models"
	"github.com/emgimbal/shop/internal/mykafka"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
}

func (h *ProductHandler) publish(c echo.Context, key string, event map[string]any) {
	publishEvent(c, h.Producer, "product_events", key, event)
}

// Search index writes are best-effort: a failed write is logged and the
// request still succeeds.
func (h *ProductHandler) index(c echo.Context, prod models.Product) {
	if h.ES == nil {
		return
	}
	body, err := json.Marshal(prod)
	if err != nil {
		c.Logger().Errorf("ES marshal error: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	res, err := h.ES.Index(es.ProductIndex, bytes.NewReader(body),
		h.ES.Index.WithDocumentID(prod.ID),
		h.ES.Index.WithContext(ctx),
	)
	if err != nil {
		c.Logger().Errorf("ES index error: %v", err)
		return
	}
	res.Body.Close()
}

func (h *ProductHandler) deindex(c echo.Context, id string) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	res, err := h.ES.Delete(es.ProductIndex, id, h.ES.Delete.WithContext(ctx))
	if err != nil {
		c.Logger().Errorf("ES delete error: %v", err)
		return
	}
	res.Body.Close()
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	items := make([]models.Product, 0)
	if err := h.DB.Find(&items).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	idParam := c.Param("id")
	if _, err := uuid.Parse(idParam); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var product models.Product
	if err := h.DB.Where("id = ?", idParam).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusOK, nil)
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req struct {
		Name        string  `json:"name"`
		Price       float64 `json:"price"`
		Description string  `json:"description"`
		Image       string  `json:"image"`
	}

	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	prod := models.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Image:       req.Image,
	}

	if err := h.DB.Create(&prod).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	h.publish(c, prod.ID, map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	h.index(c, prod)

	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	idParam := c.Param("id")
	if _, err := uuid.Parse(idParam); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	if err := h.DB.Delete(&models.Product{}, "id = ?", idParam).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	h.publish(c, idParam, map[string]any{
		"type":      "product_deleted",
		"productID": idParam,
	})
	h.deindex(c, idParam)

	return c.NoContent(http.StatusNoContent)
}
