package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"techshop/internal/models"
	"techshop/internal/mykafka"
)

// shippingFee is the flat fee applied whenever the subtotal is non-zero.
var shippingFee = decimal.NewFromInt(10)

type CartHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

// AddToCart finds or creates the customer's cart, then either bumps the
// quantity of an existing line or inserts a new one with quantity 1.
func (h *CartHandler) AddToCart(c echo.Context) error {
	var req struct {
		ProductID  int `json:"product_id"  form:"product_id"`
		CustomerID int `json:"customer_id" form:"customer_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Missing product_id or customer_id",
		})
	}
	if req.ProductID == 0 || req.CustomerID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Missing product_id or customer_id",
		})
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.Where("CustomerID = ?", req.CustomerID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart = models.Cart{CustomerID: req.CustomerID, TotalAmount: 0}
			if err := tx.Create(&cart).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		var item models.CartItem
		err = tx.Where("CartID = ? AND ProductID = ?", cart.ID, req.ProductID).First(&item).Error
		switch {
		case err == nil:
			return tx.Model(&item).Update("Quantity", gorm.Expr("Quantity + 1")).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&models.CartItem{
				CartID:    cart.ID,
				ProductID: req.ProductID,
				Quantity:  1,
			}).Error
		default:
			return err
		}
	})
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": err.Error()})
	}

	h.publish(c, map[string]any{
		"type":       "cart_item_added",
		"customerID": req.CustomerID,
		"productID":  req.ProductID,
	}, req.CustomerID)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Added to cart"})
}

type cartItemJSON struct {
	ProductID int     `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ItemTotal float64 `json:"item_total"`
}

// GetCartDetails joins cart lines with product prices, computes the totals
// and writes the recomputed subtotal back onto the cart row.
func (h *CartHandler) GetCartDetails(c echo.Context) error {
	customerID, err := strconv.Atoi(c.QueryParam("customer_id"))
	if err != nil || customerID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Customer ID is required",
		})
	}

	var rows []struct {
		ProductID int
		Name      string
		Price     float64
		Quantity  int
	}
	err = h.DB.Raw(`
		SELECT ci.ProductID AS product_id, p.Name AS name, p.Price AS price, ci.Quantity AS quantity
		FROM CART_ITEM ci
		JOIN CART c ON ci.CartID = c.CartID
		JOIN PRODUCT p ON ci.ProductID = p.ProductID
		WHERE c.CustomerID = ?`, customerID).Scan(&rows).Error
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": err.Error()})
	}

	items := make([]cartItemJSON, len(rows))
	subtotal := decimal.Zero
	for i, row := range rows {
		itemTotal := decimal.NewFromFloat(row.Price).Mul(decimal.NewFromInt(int64(row.Quantity)))
		subtotal = subtotal.Add(itemTotal)
		items[i] = cartItemJSON{
			ProductID: row.ProductID,
			Name:      row.Name,
			Price:     row.Price,
			Quantity:  row.Quantity,
			ItemTotal: itemTotal.InexactFloat64(),
		}
	}

	shipping := decimal.Zero
	if subtotal.IsPositive() {
		shipping = shippingFee
	}
	total := subtotal.Add(shipping)

	if len(items) > 0 {
		err := h.DB.Model(&models.Cart{}).
			Where("CustomerID = ?", customerID).
			Update("TotalAmount", subtotal.InexactFloat64()).Error
		if err != nil {
			return c.JSON(http.StatusOK, echo.Map{"success": false, "message": err.Error()})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"items":        items,
		"subtotal":     subtotal.InexactFloat64(),
		"shipping_fee": shipping.InexactFloat64(),
		"total_amount": total.InexactFloat64(),
	})
}

func (h *CartHandler) publish(c echo.Context, event map[string]any, customerID int) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "cart_events", fmt.Sprint(customerID), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
