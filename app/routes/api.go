// Package routes declares the HTTP route table.
package routes

import (
	"github.com/hendryprasetyo/storefront/app/controllers"
	"github.com/hendryprasetyo/storefront/app/repositories"
	"github.com/hendryprasetyo/storefront/app/services"
	"github.com/hendryprasetyo/storefront/pkg/mail"
	"github.com/hendryprasetyo/storefront/pkg/middleware"
	"github.com/hendryprasetyo/storefront/pkg/router"
)

// Stores bundles the persistence layer handed to the route table.
type Stores struct {
	Users    repositories.UserStore
	Orders   repositories.OrderStore
	Products repositories.ProductStore
}

// RegisterAPI mounts every application route on r.
func RegisterAPI(r *router.Router, stores Stores, mailer mail.Sender) {
	authController := controllers.NewAuthController(services.NewAuthService(stores.Users, mailer))
	userController := controllers.NewUserController(stores.Users)
	orderController := controllers.NewOrderController(stores.Orders, stores.Users)
	productController := controllers.NewProductController(stores.Products)

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", "auth.register", authController.Register)
	auth.Post("/login", "auth.login", authController.Login)
	auth.Post("/forgotpassword", "auth.forgotpassword", authController.ForgotPassword)
	auth.Put("/resetpassword/{resetToken}", "auth.resetpassword", authController.ResetPassword)

	private := api.Group("/private", middleware.Authenticate(stores.Users))
	private.Get("/", "private.data", userController.PrivateData)
	private.Put("/profile", "private.profile.update", userController.UpdateProfile)
	private.Get("/myorders", "private.orders.mine", orderController.MyOrders)

	private.Post("/orders", "private.orders.create", orderController.Create)
	private.Get("/orders", "private.orders.all", orderController.All, middleware.RequireAdmin)
	private.Get("/orders/{id}", "private.orders.get", orderController.Get)
	private.Put("/orders/{id}/pay", "private.orders.pay", orderController.Pay)
	private.Put("/orders/{id}/deliver", "private.orders.deliver", orderController.Deliver, middleware.RequireAdmin)
	private.Put("/orders/{id}/success", "private.orders.success", orderController.Success, middleware.RequireAdmin)

	users := private.Group("/users", middleware.RequireAdmin)
	users.Get("/", "private.users.list", userController.ListUsers)
	users.Get("/{id}", "private.users.get", userController.GetUser)
	users.Put("/{id}", "private.users.update", userController.UpdateUser)
	users.Delete("/{id}", "private.users.delete", userController.DeleteUser)

	// Fixed segments (profile, myorders, orders, users) win over the id
	// match; anything else under /private resolves here.
	private.Get("/{id}", "private.profile", userController.GetProfile)

	products := api.Group("/products")
	products.Get("/", "products.list", productController.List)
	products.Get("/{id}", "products.get", productController.Get)
	products.Post("/", "products.create", productController.Create,
		middleware.Authenticate(stores.Users), middleware.RequireAdmin)
	products.Put("/{id}", "products.update", productController.Update,
		middleware.Authenticate(stores.Users), middleware.RequireAdmin)
	products.Delete("/{id}", "products.delete", productController.Delete,
		middleware.Authenticate(stores.Users), middleware.RequireAdmin)
}
