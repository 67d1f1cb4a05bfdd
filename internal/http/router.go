package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	Orders         *OrderHandler
	Products       *ProductHandler
	Categories     *CategoryHandler
	Users          *UserHandler
	Carts          *CartHandler
	RequestTimeout time.Duration
}

func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(IdentityMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", cfg.Products.ListProducts)
			r.Get("/featured", cfg.Products.ListFeatured)
			r.Get("/deals", cfg.Products.ListDeals)
			r.Get("/search", cfg.Products.SearchProducts)
			r.Get("/{product_id}", cfg.Products.GetProduct)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", cfg.Categories.ListCategories)
			r.Get("/{category_id}", cfg.Categories.GetCategory)
			r.Get("/{category_id}/products", cfg.Products.ListByCategory)
		})

		r.Get("/profile", cfg.Users.GetProfile)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cfg.Carts.GetCart)
			r.Delete("/", cfg.Carts.ClearCart)
			r.Post("/items", cfg.Carts.AddItem)
			r.Put("/items/{product_id}", cfg.Carts.UpdateQuantity)
			r.Delete("/items/{product_id}", cfg.Carts.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", cfg.Orders.CreateOrder)
			r.Get("/", cfg.Orders.ListMyOrders)
			r.Get("/{order_id}", cfg.Orders.GetOrder)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Route("/categories", func(r chi.Router) {
				r.Get("/", cfg.Categories.AdminListCategories)
				r.Post("/", cfg.Categories.CreateCategory)
				r.Put("/{category_id}", cfg.Categories.UpdateCategory)
				r.Delete("/{category_id}", cfg.Categories.DeleteCategory)
			})

			r.Route("/products", func(r chi.Router) {
				r.Post("/", cfg.Products.CreateProduct)
				r.Put("/{product_id}", cfg.Products.UpdateProduct)
				r.Delete("/{product_id}", cfg.Products.DeleteProduct)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", cfg.Users.AdminListUsers)
				r.Put("/{user_id}/credit", cfg.Users.UpdateUserCredit)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", cfg.Orders.AdminListOrders)
				r.Put("/{order_id}/status", cfg.Orders.UpdateOrderStatus)
			})
		})
	})

	return r
}
