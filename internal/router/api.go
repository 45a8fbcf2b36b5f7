package router

import (
	"net/http"

	"github.com/deppfellow/pantry/internal/handler"
	"github.com/labstack/echo/v4"
)

func registerUserRoutes(r *echo.Echo, h *handler.Handlers) {
	users := r.Group("/users")

	users.POST("/test", handler.HandleText(h.Users.Handler, h.Users.Test, http.StatusOK))
	users.POST("/create", handler.Handle(h.Users.Handler, h.Users.CreateUser, http.StatusOK))
	users.PUT("/update/:id", handler.Handle(h.Users.Handler, h.Users.UpdateUser, http.StatusOK))
	users.GET("/get/:id", handler.Handle(h.Users.Handler, h.Users.GetUser, http.StatusOK))
}

func registerCatalogRoutes(r *echo.Echo, h *handler.Handlers) {
	interests := r.Group("/interests")
	interests.POST("/create", handler.Handle(h.Interests.Handler, h.Interests.CreateInterest, http.StatusOK))
	interests.GET("/get/:id", handler.Handle(h.Interests.Handler, h.Interests.GetInterest, http.StatusOK))

	products := r.Group("/products")
	products.POST("/create", handler.Handle(h.Products.Handler, h.Products.CreateProduct, http.StatusOK))
	products.GET("/get/:id", handler.Handle(h.Products.Handler, h.Products.GetProduct, http.StatusOK))
}
