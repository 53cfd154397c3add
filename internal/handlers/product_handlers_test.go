package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/emgimbal/shop/internal/models"
)

func TestGetProducts(t *testing.T) {
	db := InitTestDB(t)
	h := &ProductHandler{DB: db}

	db.Create(&models.Product{ID: uuid.NewString(), Name: "gimbal", Price: 99.5, Description: "3-axis"})
	db.Create(&models.Product{ID: uuid.NewString(), Name: "tripod", Price: 30, Description: "aluminium"})

	rec, c := doJSONRequest(t, http.MethodGet, "/products", nil)
	require.NoError(t, h.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
}

func TestGetProduct(t *testing.T) {
	db := InitTestDB(t)
	h := &ProductHandler{DB: db}

	product := models.Product{ID: uuid.NewString(), Name: "gimbal", Price: 99.5, Description: "3-axis"}
	db.Create(&product)

	rec, c := doJSONRequest(t, http.MethodGet, "/products/"+product.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(product.ID)
	require.NoError(t, h.GetProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, product.ID, resp.ID)
	require.Equal(t, product.Name, resp.Name)
	require.Equal(t, product.Price, resp.Price)
}

func TestGetProductNotFound(t *testing.T) {
	db := InitTestDB(t)
	h := &ProductHandler{DB: db}

	unknown := uuid.NewString()
	rec, c := doJSONRequest(t, http.MethodGet, "/products/"+unknown, nil)
	c.SetParamNames("id")
	c.SetParamValues(unknown)
	require.NoError(t, h.GetProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "null", rec.Body.String())
}

func TestGetProductMalformedID(t *testing.T) {
	db := InitTestDB(t)
	h := &ProductHandler{DB: db}

	rec, c := doJSONRequest(t, http.MethodGet, "/products/not-a-uuid", nil)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")
	require.NoError(t, h.GetProduct(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProduct(t *testing.T) {
	db := InitTestDB(t)
	h := &ProductHandler{DB: db}

	load := map[string]interface{}{
		"name":        "gimbal",
		"price":       99.5,
		"description": "3-axis stabilizer",
		"image":       "gimbal.png",
	}
	rec, c := doJSONRequest(t, http.MethodPost, "/products", load)
	require.NoError(t, h.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	require.Equal(t, "gimbal", resp.Name)
	require.Equal(t, 99.5, resp.Price)

	var count int64
	db.Model(&models.Product{}).Count(&count)
	require.EqualValues(t, 1, count)
}

func TestDeleteProduct(t *testing.T) {
	db := InitTestDB(t)
	h := &ProductHandler{DB: db}

	product := models.Product{ID: uuid.NewString(), Name: "gimbal", Price: 99.5}
	db.Create(&product)

	rec, c := doJSONRequest(t, http.MethodDelete, "/products/"+product.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(product.ID)
	require.NoError(t, h.DeleteProduct(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	db.Model(&models.Product{}).Count(&count)
	require.EqualValues(t, 0, count)
}

func TestDeleteProductMalformedID(t *testing.T) {
	db := InitTestDB(t)
	h := &ProductHandler{DB: db}

	rec, c := doJSONRequest(t, http.MethodDelete, "/products/42", nil)
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, h.DeleteProduct(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
