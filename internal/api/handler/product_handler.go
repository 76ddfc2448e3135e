package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/storefront-api/internal/api/metrics"
	"github.com/sirpyerre/storefront-api/internal/core/ports"
)

// ProductHandler handles HTTP requests for product operations.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /api/products: the public catalog of approved products.
//
// @Summary      List approved products
// @Tags         products
// @Produce      json
// @Success      200  {array}   productResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.service.ListApprovedProducts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponses(products))
}

// Create handles POST /api/products. New products start unapproved.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductRequest  true  "Product details"
// @Success      201   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}

	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	p, err := h.service.CreateProduct(c.Request().Context(), u, toCreateProductInput(req))
	if err != nil {
		return err
	}

	metrics.ProductMutationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, toProductResponse(p))
}

// Update handles PATCH /api/products/:id.
//
// @Summary      Update a product
// @Description  Owners may edit their own products; admins may edit any product and set "approved".
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Product ID"
// @Param        body  body      updateProductRequest  true  "Fields to change"
// @Success      200   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/products/{id} [patch]
func (h *ProductHandler) Update(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}

	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	p, err := h.service.UpdateProduct(c.Request().Context(), u, c.Param("id"), toUpdateProductInput(req))
	if err != nil {
		return err
	}

	metrics.ProductMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, toProductResponse(p))
}

// Delete handles DELETE /api/products/:id.
//
// @Summary      Delete a product
// @Tags         products
// @Security     BearerAuth
// @Param        id   path  string  true  "Product ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteProduct(c.Request().Context(), u, c.Param("id")); err != nil {
		return err
	}

	metrics.ProductMutationsTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Approve handles PATCH /api/products/:id/approve.
//
// @Summary      Approve a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  productResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/products/{id}/approve [patch]
func (h *ProductHandler) Approve(c echo.Context) error {
	u, err := actor(c)
	if err != nil {
		return err
	}

	p, err := h.service.ApproveProduct(c.Request().Context(), u, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.ProductMutationsTotal.WithLabelValues("approve").Inc()
	return c.JSON(http.StatusOK, toProductResponse(p))
}
