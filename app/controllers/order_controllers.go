package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hendryprasetyo/storefront/app/models"
	"github.com/hendryprasetyo/storefront/app/repositories"
	"github.com/hendryprasetyo/storefront/pkg/bind"
	"github.com/hendryprasetyo/storefront/pkg/logger"
	"github.com/hendryprasetyo/storefront/pkg/middleware"
	"github.com/hendryprasetyo/storefront/pkg/response"
)

type OrderController struct {
	orders repositories.OrderStore
	users  repositories.UserStore
}

func NewOrderController(orders repositories.OrderStore, users repositories.UserStore) *OrderController {
	return &OrderController{orders: orders, users: users}
}

// Create places a new order owned by the authenticated user. A missing
// or empty item list is rejected.
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		response.Unauthorized(w, "Not authorized to access this route")
		return
	}

	var body struct {
		OrderItems    []models.OrderItem  `json:"orderItems"`
		ShippingInfo  models.ShippingInfo `json:"shippingProcess"`
		PaymentMethod string              `json:"paymentMethod" validate:"required"`
		ItemPrice     float64             `json:"itemPrice"     validate:"gte=0"`
		TaxPrice      float64             `json:"taxPrice"      validate:"gte=0"`
		ShippingPrice float64             `json:"shippingPrice" validate:"gte=0"`
		TotalPrice    float64             `json:"totalPrice"    validate:"gte=0"`
	}

	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if len(body.OrderItems) == 0 {
		response.Error(w, http.StatusBadRequest, "No order items")
		return
	}

	order := models.Order{
		UserID:        user.ID,
		OrderItems:    body.OrderItems,
		ShippingInfo:  body.ShippingInfo,
		PaymentMethod: body.PaymentMethod,
		ItemPrice:     body.ItemPrice,
		TaxPrice:      body.TaxPrice,
		ShippingPrice: body.ShippingPrice,
		TotalPrice:    body.TotalPrice,
	}

	if err := c.orders.Create(r.Context(), &order); err != nil {
		response.AppError(w, err)
		return
	}

	logger.WithCtx(r.Context()).Info("order placed",
		"order_id", order.ID.Hex(), "user_id", user.ID.Hex(), "total", order.TotalPrice)
	response.Created(w, order)
}

// Get returns one order with the owner's username and email joined on.
func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	order, ok := c.findOrder(w, r)
	if !ok {
		return
	}

	if owner, err := c.users.FindByID(r.Context(), order.UserID); err == nil {
		order.Owner = &models.OrderUser{ID: owner.ID, Username: owner.Username, Email: owner.Email}
	}

	response.Success(w, order)
}

// Pay records the payment provider's confirmation and flips the paid
// milestone. Replaying the callback rewrites the same terminal state.
func (c *OrderController) Pay(w http.ResponseWriter, r *http.Request) {
	order, ok := c.findOrder(w, r)
	if !ok {
		return
	}

	var body struct {
		ID           string `json:"id"`
		Status       string `json:"status"`
		UpdateTime   string `json:"update_time"`
		EmailAddress string `json:"email_address"`
	}

	if _, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UTC()
	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentResult = models.PaymentResult{
		ID:           body.ID,
		Status:       body.Status,
		UpdateTime:   body.UpdateTime,
		EmailAddress: body.EmailAddress,
	}

	if err := c.orders.Update(r.Context(), &order); err != nil {
		response.AppError(w, err)
		return
	}

	logger.WithCtx(r.Context()).Info("order paid", "order_id", order.ID.Hex())
	response.Success(w, order)
}

// Deliver marks the order as handed to delivery. Admin only.
func (c *OrderController) Deliver(w http.ResponseWriter, r *http.Request) {
	order, ok := c.findOrder(w, r)
	if !ok {
		return
	}

	now := time.Now().UTC()
	order.IsProcess = true
	order.ProcessAt = &now

	if err := c.orders.Update(r.Context(), &order); err != nil {
		response.AppError(w, err)
		return
	}

	response.Success(w, order)
}

// Success marks the order's terminal success milestone. Admin only.
func (c *OrderController) Success(w http.ResponseWriter, r *http.Request) {
	order, ok := c.findOrder(w, r)
	if !ok {
		return
	}

	now := time.Now().UTC()
	order.StatusProcess = true
	order.SuccessAt = &now

	if err := c.orders.Update(r.Context(), &order); err != nil {
		response.AppError(w, err)
		return
	}

	response.Success(w, order)
}

// MyOrders lists the authenticated user's own orders.
func (c *OrderController) MyOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		response.Unauthorized(w, "Not authorized to access this route")
		return
	}

	orders, err := c.orders.FindByUser(r.Context(), user.ID)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.Success(w, orders)
}

// All lists every order with the owner's id and username joined on.
// Admin only.
func (c *OrderController) All(w http.ResponseWriter, r *http.Request) {
	orders, err := c.orders.All(r.Context())
	if err != nil {
		response.AppError(w, err)
		return
	}

	// Small result sets in practice; one lookup per distinct owner.
	owners := make(map[primitive.ObjectID]*models.OrderUser)
	for i := range orders {
		uid := orders[i].UserID
		if cached, seen := owners[uid]; seen {
			orders[i].Owner = cached
			continue
		}
		owner, err := c.users.FindByID(r.Context(), uid)
		if err != nil {
			owners[uid] = nil
			continue
		}
		owners[uid] = &models.OrderUser{ID: owner.ID, Username: owner.Username}
		orders[i].Owner = owners[uid]
	}

	response.Success(w, orders)
}

func (c *OrderController) findOrder(w http.ResponseWriter, r *http.Request) (models.Order, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.NotFound(w, "Order not found")
		return models.Order{}, false
	}

	order, err := c.orders.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w, "Order not found")
			return models.Order{}, false
		}
		response.AppError(w, err)
		return models.Order{}, false
	}

	return order, true
}
