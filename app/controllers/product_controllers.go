package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hendryprasetyo/storefront/app/models"
	"github.com/hendryprasetyo/storefront/app/repositories"
	"github.com/hendryprasetyo/storefront/pkg/bind"
	"github.com/hendryprasetyo/storefront/pkg/logger"
	"github.com/hendryprasetyo/storefront/pkg/response"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

type ProductController struct {
	products repositories.ProductStore
}

func NewProductController(products repositories.ProductStore) *ProductController {
	return &ProductController{products: products}
}

// List returns one page of the catalog, optionally filtered by a
// keyword matched against product names.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", defaultPageSize)
	if limit > maxPageSize {
		limit = maxPageSize
	}

	result, err := c.products.Search(r.Context(), keyword, page, limit)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.Success(w, result)
}

func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	product, ok := c.findProduct(w, r)
	if !ok {
		return
	}

	response.Success(w, product)
}

type productInput struct {
	Name         string  `json:"name"         validate:"required,max=100"`
	Brand        string  `json:"brand"        validate:"nullable,max=100"`
	Category     string  `json:"category"     validate:"nullable,max=100"`
	Description  string  `json:"description"`
	Image        string  `json:"image"`
	Price        float64 `json:"price"        validate:"gte=0"`
	CountInStock int     `json:"countInStock" validate:"gte=0"`
}

// Create adds a catalog entry. Admin only.
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var body productInput
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product := models.Product{
		Name:         body.Name,
		Brand:        body.Brand,
		Category:     body.Category,
		Description:  body.Description,
		Image:        body.Image,
		Price:        body.Price,
		CountInStock: body.CountInStock,
	}

	if err := c.products.Create(r.Context(), &product); err != nil {
		response.AppError(w, err)
		return
	}

	logger.WithCtx(r.Context()).Info("product created", "product_id", product.ID.Hex())
	response.Created(w, product)
}

// Update replaces a catalog entry's fields. Admin only.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	product, ok := c.findProduct(w, r)
	if !ok {
		return
	}

	var body productInput
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product.Name = body.Name
	product.Brand = body.Brand
	product.Category = body.Category
	product.Description = body.Description
	product.Image = body.Image
	product.Price = body.Price
	product.CountInStock = body.CountInStock

	if err := c.products.Update(r.Context(), &product); err != nil {
		response.AppError(w, err)
		return
	}

	response.Success(w, product)
}

// Delete removes a catalog entry. Admin only.
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	product, ok := c.findProduct(w, r)
	if !ok {
		return
	}

	if err := c.products.Delete(r.Context(), product.ID); err != nil {
		response.AppError(w, err)
		return
	}

	logger.WithCtx(r.Context()).Info("product deleted", "product_id", product.ID.Hex())
	response.Message(w, "Product removed")
}

func (c *ProductController) findProduct(w http.ResponseWriter, r *http.Request) (models.Product, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.NotFound(w, "Product not found")
		return models.Product{}, false
	}

	product, err := c.products.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w, "Product not found")
			return models.Product{}, false
		}
		response.AppError(w, err)
		return models.Product{}, false
	}

	return product, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
