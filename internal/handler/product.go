package handler

import (
    "errors"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/shoply/internal/middleware"
    "github.com/iliyamo/shoply/internal/model"
    "github.com/iliyamo/shoply/internal/repository"
    "github.com/iliyamo/shoply/internal/response"
)

// ProductHandler serves the catalog: public browsing plus admin CRUD.
type ProductHandler struct {
    Products repository.ProductStore
}

func NewProductHandler(products repository.ProductStore) *ProductHandler {
    return &ProductHandler{Products: products}
}

type productReq struct {
    Name        string  `json:"name"`
    Description *string `json:"description"`
    Price       float64 `json:"price"`
    Category    string  `json:"category"`
    Stock       uint32  `json:"stock"`
    ImageURL    *string `json:"imageUrl"`
}

// List returns all products, optionally filtered with ?search= against
// name and category. An empty catalog is a success with an empty list.
func (h *ProductHandler) List(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    products, err := h.Products.List(ctx, strings.TrimSpace(c.QueryParam("search")))
    if err != nil {
        c.Logger().Errorf("list products: %v", err)
        return response.Fail(c, http.StatusInternalServerError, "Failed to fetch products")
    }
    if len(products) == 0 {
        return response.OK(c, http.StatusOK, "No products found", []model.Product{})
    }
    return response.OK(c, http.StatusOK, "Products fetched successfully", products)
}

// Get returns one product by id.
func (h *ProductHandler) Get(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return response.Fail(c, http.StatusBadRequest, "Product ID is required")
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    p, err := h.Products.GetByID(ctx, id)
    if errors.Is(err, repository.ErrNotFound) {
        return response.Fail(c, http.StatusNotFound, "Product not found")
    }
    if err != nil {
        c.Logger().Errorf("fetch product %d: %v", id, err)
        return response.Fail(c, http.StatusInternalServerError, "Failed to fetch product")
    }
    return response.OK(c, http.StatusOK, "Product fetched successfully", p)
}

// Create adds a catalog entry. Admin-only; the creator id comes from the
// session.
func (h *ProductHandler) Create(c echo.Context) error {
    uid, ok := middleware.CurrentUserID(c)
    if !ok {
        return response.Fail(c, http.StatusUnauthorized, "Not authenticated")
    }
    var req productReq
    if err := c.Bind(&req); err != nil {
        return response.Fail(c, http.StatusBadRequest, "Invalid request body")
    }
    if strings.TrimSpace(req.Name) == "" || req.Price <= 0 || strings.TrimSpace(req.Category) == "" {
        return response.Fail(c, http.StatusBadRequest, "Name, price, and category are required.")
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    id, err := h.Products.Create(ctx, &model.Product{
        Name:        strings.TrimSpace(req.Name),
        Description: req.Description,
        Price:       req.Price,
        Category:    strings.TrimSpace(req.Category),
        Stock:       req.Stock,
        ImageURL:    req.ImageURL,
        CreatedBy:   uid,
    })
    if err != nil {
        c.Logger().Errorf("create product: %v", err)
        return response.Fail(c, http.StatusInternalServerError, "Failed to add product")
    }
    p, err := h.Products.GetByID(ctx, id)
    if err != nil {
        c.Logger().Errorf("reload product %d: %v", id, err)
        return response.Fail(c, http.StatusInternalServerError, "Failed to add product")
    }
    return response.OK(c, http.StatusCreated, "Product added successfully", p)
}

// Update rewrites a catalog entry.
func (h *ProductHandler) Update(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return response.Fail(c, http.StatusBadRequest, "Product ID is required")
    }
    var req productReq
    if err := c.Bind(&req); err != nil {
        return response.Fail(c, http.StatusBadRequest, "Invalid request body")
    }
    if strings.TrimSpace(req.Name) == "" || req.Price <= 0 || strings.TrimSpace(req.Category) == "" {
        return response.Fail(c, http.StatusBadRequest, "Name, category, and price are required")
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    p := &model.Product{
        ID:          id,
        Name:        strings.TrimSpace(req.Name),
        Description: req.Description,
        Price:       req.Price,
        Category:    strings.TrimSpace(req.Category),
        Stock:       req.Stock,
        ImageURL:    req.ImageURL,
    }
    if err := h.Products.Update(ctx, p); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return response.Fail(c, http.StatusNotFound, "Product not found")
        }
        c.Logger().Errorf("update product %d: %v", id, err)
        return response.Fail(c, http.StatusInternalServerError, "Failed to update product")
    }
    updated, err := h.Products.GetByID(ctx, id)
    if err != nil {
        c.Logger().Errorf("reload product %d: %v", id, err)
        return response.Fail(c, http.StatusInternalServerError, "Failed to update product")
    }
    return response.OK(c, http.StatusOK, "Product updated successfully", updated)
}

// Delete removes a catalog entry.
func (h *ProductHandler) Delete(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return response.Fail(c, http.StatusBadRequest, "Product ID is required")
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Products.Delete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return response.Fail(c, http.StatusNotFound, "Product not found")
        }
        c.Logger().Errorf("delete product %d: %v", id, err)
        return response.Fail(c, http.StatusInternalServerError, "Failed to delete product")
    }
    return response.OK(c, http.StatusOK, "Product deleted successfully", nil)
}
