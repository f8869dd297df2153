package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"techshop/internal/es"
	"techshop/internal/models"
	"techshop/internal/mykafka"
	"techshop/internal/storage"
)

const placeholderImage = "../images/placeholder.jpg"

// ProductHandler serves the admin product CRUD behind a single endpoint
// with an action discriminator in the request body.
type ProductHandler struct {
	DB       *gorm.DB
	Caps     storage.Capabilities
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
}

type productRequest struct {
	Action       string `json:"action"        form:"action"`
	ID           string `json:"id"            form:"id"`
	Name         string `json:"name"          form:"name"`
	Category     string `json:"category"      form:"category"`
	Description  string `json:"description"   form:"description"`
	Price        string `json:"price"         form:"price"`
	Stock        string `json:"stock"         form:"stock"`
	Image        string `json:"image"         form:"image"`
	Barcode      string `json:"barcode"       form:"barcode"`
	SerialNumber string `json:"serial_number" form:"serial_number"`
	Manufacturer string `json:"manufacturer"  form:"manufacturer"`
	AdminID      string `json:"admin_id"      form:"admin_id"`
}

// productJSON is the normalized wire shape: optional schema columns always
// appear, defaulted when the underlying table lacks them.
type productJSON struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Stock        int     `json:"stock"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Image        string  `json:"image"`
	Barcode      string  `json:"barcode"`
	SerialNumber string  `json:"serialNumber"`
	Manufacturer string  `json:"manufacturer"`
	AdminID      int     `json:"adminId"`
}

func (h *ProductHandler) normalize(p models.Product) productJSON {
	out := productJSON{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		Stock:        p.Stock,
		Description:  p.Description,
		Category:     p.Category,
		Image:        p.Image,
		Barcode:      p.Barcode,
		SerialNumber: p.SerialNumber,
		Manufacturer: p.Manufacturer,
		AdminID:      p.AdminID,
	}
	if !h.Caps.HasCategory {
		out.Category = ""
	}
	if !h.Caps.HasImage {
		out.Image = placeholderImage
	}
	return out
}

func failJSON(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, echo.Map{"success": false, "message": message})
}

// Handle dispatches on the action field. Every failure is converted to the
// {success:false, message} shape, nothing propagates as a raw server error.
func (h *ProductHandler) Handle(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return failJSON(c, "Error: "+err.Error())
	}

	switch req.Action {
	case "create":
		return h.create(c, req)
	case "update":
		return h.update(c, req)
	case "delete":
		return h.delete(c, req)
	case "get_all":
		return h.getAll(c)
	case "get_product":
		return h.getProduct(c, req)
	default:
		return failJSON(c, "Invalid action specified")
	}
}

func parseProductFields(req productRequest) (models.Product, error) {
	price, err := parsePrice(req.Price)
	if err != nil {
		return models.Product{}, err
	}
	stock, err := parseStock(req.Stock)
	if err != nil {
		return models.Product{}, err
	}
	adminID := 1
	if req.AdminID != "" {
		adminID, err = strconv.Atoi(req.AdminID)
		if err != nil {
			return models.Product{}, fmt.Errorf("invalid admin ID %q", req.AdminID)
		}
	}
	return models.Product{
		Name:         req.Name,
		Description:  req.Description,
		Price:        price,
		Stock:        stock,
		Category:     req.Category,
		Image:        req.Image,
		Barcode:      req.Barcode,
		SerialNumber: req.SerialNumber,
		Manufacturer: req.Manufacturer,
		AdminID:      adminID,
	}, nil
}

func parsePrice(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: not a number", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("invalid price %q: must not be negative", s)
	}
	return v, nil
}

func parseStock(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid stock %q: not a whole number", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("invalid stock %q: must not be negative", s)
	}
	return v, nil
}

// columns returns the writable column set for the live schema.
func (h *ProductHandler) columns() []string {
	cols := []string{"Name", "Description", "Price", "Stock"}
	if h.Caps.HasCategory {
		cols = append(cols, "Category")
	}
	if h.Caps.HasImage {
		cols = append(cols, "Image")
	}
	return append(cols, "Barcode", "SerialNumber", "Manufacturer", "AdminID")
}

func (h *ProductHandler) create(c echo.Context, req productRequest) error {
	prod, err := parseProductFields(req)
	if err != nil {
		return failJSON(c, err.Error())
	}

	if err := h.DB.Select(h.columns()).Create(&prod).Error; err != nil {
		return failJSON(c, "Error: "+err.Error())
	}

	h.publish(c, map[string]any{"type": "product_created", "productID": prod.ID, "name": prod.Name})
	h.index(c, prod)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Product created successfully",
		"id":      prod.ID,
	})
}

func (h *ProductHandler) update(c echo.Context, req productRequest) error {
	id, err := strconv.Atoi(req.ID)
	if err != nil || id <= 0 {
		return failJSON(c, "Invalid product ID")
	}

	prod, err := parseProductFields(req)
	if err != nil {
		return failJSON(c, err.Error())
	}

	updates := map[string]any{
		"Name":         prod.Name,
		"Description":  prod.Description,
		"Price":        prod.Price,
		"Stock":        prod.Stock,
		"Barcode":      prod.Barcode,
		"SerialNumber": prod.SerialNumber,
		"Manufacturer": prod.Manufacturer,
		"AdminID":      prod.AdminID,
	}
	if h.Caps.HasCategory {
		updates["Category"] = prod.Category
	}
	if h.Caps.HasImage {
		updates["Image"] = prod.Image
	}

	if err := h.DB.Model(&models.Product{}).Where("ProductID = ?", id).Updates(updates).Error; err != nil {
		return failJSON(c, "Error: "+err.Error())
	}

	prod.ID = id
	h.publish(c, map[string]any{"type": "product_updated", "productID": id, "name": prod.Name})
	h.index(c, prod)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Product updated successfully",
	})
}

func (h *ProductHandler) delete(c echo.Context, req productRequest) error {
	id, err := strconv.Atoi(req.ID)
	if err != nil || id <= 0 {
		return failJSON(c, "Invalid product ID")
	}

	var refs int64
	if err := h.DB.Model(&models.OrderItem{}).Where("ProductID = ?", id).Count(&refs).Error; err != nil {
		return failJSON(c, "Error: "+err.Error())
	}
	if refs > 0 {
		return failJSON(c, "Cannot delete product that exists in orders")
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ProductID = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Where("ProductID = ?", id).Delete(&models.Product{}).Error
	})
	if err != nil {
		return failJSON(c, "Error: "+err.Error())
	}

	h.publish(c, map[string]any{"type": "product_deleted", "productID": id})
	h.deindex(c, id)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Product deleted successfully",
	})
}

func (h *ProductHandler) getAll(c echo.Context) error {
	var items []models.Product
	if err := h.DB.Order("ProductID").Find(&items).Error; err != nil {
		return failJSON(c, "Error: "+err.Error())
	}

	products := make([]productJSON, len(items))
	for i, p := range items {
		products[i] = h.normalize(p)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"products": products,
	})
}

func (h *ProductHandler) getProduct(c echo.Context, req productRequest) error {
	id, err := strconv.Atoi(req.ID)
	if err != nil || id <= 0 {
		return failJSON(c, "Invalid product ID")
	}

	var prod models.Product
	if err := h.DB.Where("ProductID = ?", id).First(&prod).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failJSON(c, "Product not found")
		}
		return failJSON(c, "Error: "+err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"product": h.normalize(prod),
	})
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(event["productID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *ProductHandler) index(c echo.Context, prod models.Product) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := es.IndexProduct(ctx, h.ES, prod); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}

func (h *ProductHandler) deindex(c echo.Context, id int) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := es.DeleteProduct(ctx, h.ES, id); err != nil {
		c.Logger().Errorf("ES delete error: %v", err)
	}
}
