package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hendryprasetyo/storefront/pkg/testkit"
)

func productBody(name string) map[string]any {
	return map[string]any{
		"name":         name,
		"brand":        "Acme",
		"category":     "Electronics",
		"description":  "Sample catalog entry",
		"image":        "/images/sample.jpg",
		"price":        19.99,
		"countInStock": 5,
	}
}

func createProduct(t *testing.T, a *api, adminToken, name string) string {
	t.Helper()

	rec := testkit.Do(t, a.handler,
		testkit.Post("/api/products").Bearer(adminToken).JSON(productBody(name)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var product struct {
		ID string `json:"_id"`
	}
	testkit.DecodeData(t, rec, &product)
	require.NotEmpty(t, product.ID)
	return product.ID
}

func TestProductListIsPublic(t *testing.T) {
	a := newAPI(t)
	adminToken := a.registerAdmin(t, "root", "root@example.com")
	for i := 0; i < 3; i++ {
		createProduct(t, a, adminToken, fmt.Sprintf("Widget %d", i))
	}

	rec := testkit.Do(t, a.handler, testkit.Get("/api/products"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var page struct {
		Products []struct {
			Name string `json:"name"`
		} `json:"products"`
		Page  int   `json:"page"`
		Total int64 `json:"total"`
	}
	testkit.DecodeData(t, rec, &page)
	assert.Len(t, page.Products, 3)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, int64(3), page.Total)
}

func TestProductListKeywordAndPaging(t *testing.T) {
	a := newAPI(t)
	adminToken := a.registerAdmin(t, "root", "root@example.com")
	createProduct(t, a, adminToken, "Wireless Mouse")
	createProduct(t, a, adminToken, "Wired Mouse")
	createProduct(t, a, adminToken, "Keyboard")

	rec := testkit.Do(t, a.handler, testkit.Get("/api/products?keyword=mouse"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var page struct {
		Products []struct {
			Name string `json:"name"`
		} `json:"products"`
		Pages int `json:"pages"`
	}
	testkit.DecodeData(t, rec, &page)
	assert.Len(t, page.Products, 2)

	rec = testkit.Do(t, a.handler, testkit.Get("/api/products?limit=2&page=2"))
	require.Equal(t, http.StatusOK, rec.Code)
	testkit.DecodeData(t, rec, &page)
	assert.Len(t, page.Products, 1)
	assert.Equal(t, 2, page.Pages)
}

func TestProductGet(t *testing.T) {
	a := newAPI(t)
	adminToken := a.registerAdmin(t, "root", "root@example.com")
	id := createProduct(t, a, adminToken, "Widget")

	rec := testkit.Do(t, a.handler, testkit.Get("/api/products/"+id))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var product struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	testkit.DecodeData(t, rec, &product)
	assert.Equal(t, "Widget", product.Name)
	assert.Equal(t, 19.99, product.Price)

	rec = testkit.Do(t, a.handler, testkit.Get("/api/products/ffffffffffffffffffffffff"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", testkit.DecodeEnvelope(t, rec).Message)
}

func TestProductWritesAreAdminOnly(t *testing.T) {
	a := newAPI(t)
	userToken := a.register(t, "alice", "alice@example.com")

	rec := testkit.Do(t, a.handler, testkit.Post("/api/products").JSON(productBody("Widget")))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = testkit.Do(t, a.handler,
		testkit.Post("/api/products").Bearer(userToken).JSON(productBody("Widget")))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProductCreateValidation(t *testing.T) {
	a := newAPI(t)
	adminToken := a.registerAdmin(t, "root", "root@example.com")

	body := productBody("")
	rec := testkit.Do(t, a.handler,
		testkit.Post("/api/products").Bearer(adminToken).JSON(body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, testkit.DecodeEnvelope(t, rec).Errors, "name")
}

func TestProductUpdate(t *testing.T) {
	a := newAPI(t)
	adminToken := a.registerAdmin(t, "root", "root@example.com")
	id := createProduct(t, a, adminToken, "Widget")

	body := productBody("Widget v2")
	body["price"] = 24.99

	rec := testkit.Do(t, a.handler,
		testkit.Put("/api/products/"+id).Bearer(adminToken).JSON(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var product struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	testkit.DecodeData(t, rec, &product)
	assert.Equal(t, "Widget v2", product.Name)
	assert.Equal(t, 24.99, product.Price)
}

func TestProductDelete(t *testing.T) {
	a := newAPI(t)
	adminToken := a.registerAdmin(t, "root", "root@example.com")
	id := createProduct(t, a, adminToken, "Widget")

	rec := testkit.Do(t, a.handler,
		testkit.Delete("/api/products/"+id).Bearer(adminToken))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Product removed", testkit.DecodeEnvelope(t, rec).Message)

	rec = testkit.Do(t, a.handler, testkit.Get("/api/products/"+id))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
