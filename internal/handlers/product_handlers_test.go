package handlers

import (
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"techshop/internal/models"
)

func sampleForm(action string) url.Values {
	return url.Values{
		"action":        {action},
		"name":          {"iPhone 16 Pro"},
		"category":      {"phone"},
		"description":   {"Apple's latest flagship phone."},
		"price":         {"999.00"},
		"stock":         {"45"},
		"image":         {"../images/iphone.jpg"},
		"barcode":       {"123456789012"},
		"serial_number": {"IPHONE16PRO-001"},
		"manufacturer":  {"Apple"},
		"admin_id":      {"1"},
	}
}

func TestCreateThenGetProduct(t *testing.T) {
	h, _ := newProductHandler(t, fullSchema)
	e := echo.New()

	rec, c := doFormRequest(t, e, "/admin_update_product", sampleForm("create"))
	require.NoError(t, h.Handle(c))

	resp := decodeBody(t, rec)
	require.Equal(t, true, resp["success"])
	require.Equal(t, "Product created successfully", resp["message"])
	id := int(resp["id"].(float64))
	require.Greater(t, id, 0)

	form := url.Values{"action": {"get_product"}, "id": {"1"}}
	rec, c = doFormRequest(t, e, "/admin_update_product", form)
	require.NoError(t, h.Handle(c))

	resp = decodeBody(t, rec)
	require.Equal(t, true, resp["success"])
	product := resp["product"].(map[string]any)
	require.Equal(t, float64(id), product["id"])
	require.Equal(t, "iPhone 16 Pro", product["name"])
	require.Equal(t, 999.0, product["price"])
	require.Equal(t, float64(45), product["stock"])
	require.Equal(t, "Apple's latest flagship phone.", product["description"])
	require.Equal(t, "phone", product["category"])
	require.Equal(t, "../images/iphone.jpg", product["image"])
	require.Equal(t, "123456789012", product["barcode"])
	require.Equal(t, "IPHONE16PRO-001", product["serialNumber"])
	require.Equal(t, "Apple", product["manufacturer"])
	require.Equal(t, float64(1), product["adminId"])
}

func TestCreateProductRejectsMalformedNumbers(t *testing.T) {
	h, db := newProductHandler(t, fullSchema)
	e := echo.New()

	for _, tc := range []struct {
		field, value string
	}{
		{"price", "not-a-price"},
		{"price", "-5"},
		{"stock", "4.5"},
		{"stock", "-1"},
	} {
		form := sampleForm("create")
		form.Set(tc.field, tc.value)
		rec, c := doFormRequest(t, e, "/admin_update_product", form)
		require.NoError(t, h.Handle(c))

		resp := decodeBody(t, rec)
		require.Equal(t, false, resp["success"])
		require.Contains(t, resp["message"], "invalid "+tc.field)
	}

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestUpdateProduct(t *testing.T) {
	h, db := newProductHandler(t, fullSchema)
	e := echo.New()

	rec, c := doFormRequest(t, e, "/admin_update_product", sampleForm("create"))
	require.NoError(t, h.Handle(c))
	require.Equal(t, true, decodeBody(t, rec)["success"])

	form := sampleForm("update")
	form.Set("id", "1")
	form.Set("name", "iPhone 16 Pro Max")
	form.Set("price", "1199.00")
	form.Set("stock", "10")
	rec, c = doFormRequest(t, e, "/admin_update_product", form)
	require.NoError(t, h.Handle(c))

	resp := decodeBody(t, rec)
	require.Equal(t, true, resp["success"])
	require.Equal(t, "Product updated successfully", resp["message"])

	var prod models.Product
	require.NoError(t, db.First(&prod, 1).Error)
	require.Equal(t, "iPhone 16 Pro Max", prod.Name)
	require.Equal(t, 1199.0, prod.Price)
	require.Equal(t, 10, prod.Stock)
}

func TestUpdateProductInvalidID(t *testing.T) {
	h, _ := newProductHandler(t, fullSchema)
	e := echo.New()

	for _, id := range []string{"", "0", "-3", "abc"} {
		form := sampleForm("update")
		form.Set("id", id)
		rec, c := doFormRequest(t, e, "/admin_update_product", form)
		require.NoError(t, h.Handle(c))

		resp := decodeBody(t, rec)
		require.Equal(t, false, resp["success"])
		require.Equal(t, "Invalid product ID", resp["message"])
	}
}

func TestDeleteProductBlockedByOrderReference(t *testing.T) {
	h, db := newProductHandler(t, fullSchema)
	e := echo.New()

	rec, c := doFormRequest(t, e, "/admin_update_product", sampleForm("create"))
	require.NoError(t, h.Handle(c))
	require.Equal(t, true, decodeBody(t, rec)["success"])

	order := models.Order{Date: "2023-05-01", CustomerID: 7, TotalAmount: 999, Status: "Completed"}
	require.NoError(t, db.Create(&order).Error)
	require.NoError(t, db.Create(&models.OrderItem{OrderID: order.ID, ProductID: 1, Quantity: 1}).Error)

	form := url.Values{"action": {"delete"}, "id": {"1"}}
	rec, c = doFormRequest(t, e, "/admin_update_product", form)
	require.NoError(t, h.Handle(c))

	resp := decodeBody(t, rec)
	require.Equal(t, false, resp["success"])
	require.Equal(t, "Cannot delete product that exists in orders", resp["message"])

	// Row untouched.
	var prod models.Product
	require.NoError(t, db.First(&prod, 1).Error)
	require.Equal(t, "iPhone 16 Pro", prod.Name)
}

func TestDeleteProductRemovesCartReferences(t *testing.T) {
	h, db := newProductHandler(t, fullSchema)
	e := echo.New()

	rec, c := doFormRequest(t, e, "/admin_update_product", sampleForm("create"))
	require.NoError(t, h.Handle(c))
	require.Equal(t, true, decodeBody(t, rec)["success"])

	cart := models.Cart{CustomerID: 3}
	require.NoError(t, db.Create(&cart).Error)
	require.NoError(t, db.Create(&models.CartItem{CartID: cart.ID, ProductID: 1, Quantity: 2}).Error)

	form := url.Values{"action": {"delete"}, "id": {"1"}}
	rec, c = doFormRequest(t, e, "/admin_update_product", form)
	require.NoError(t, h.Handle(c))

	resp := decodeBody(t, rec)
	require.Equal(t, true, resp["success"])
	require.Equal(t, "Product deleted successfully", resp["message"])

	var items, prods int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&items).Error)
	require.NoError(t, db.Model(&models.Product{}).Count(&prods).Error)
	require.Zero(t, items)
	require.Zero(t, prods)
}

func TestGetAllDefaultsOptionalColumns(t *testing.T) {
	h, _ := newProductHandler(t, legacySchema)
	e := echo.New()

	require.False(t, h.Caps.HasCategory)
	require.False(t, h.Caps.HasImage)

	// Category and image are accepted in the request but not persisted.
	rec, c := doFormRequest(t, e, "/admin_update_product", sampleForm("create"))
	require.NoError(t, h.Handle(c))
	require.Equal(t, true, decodeBody(t, rec)["success"])

	form := url.Values{"action": {"get_all"}}
	rec, c = doFormRequest(t, e, "/admin_update_product", form)
	require.NoError(t, h.Handle(c))

	resp := decodeBody(t, rec)
	require.Equal(t, true, resp["success"])
	products := resp["products"].([]any)
	require.Len(t, products, 1)

	product := products[0].(map[string]any)
	require.Equal(t, "", product["category"])
	require.Equal(t, "../images/placeholder.jpg", product["image"])
	require.Equal(t, "iPhone 16 Pro", product["name"])
}

func TestGetProductNotFound(t *testing.T) {
	h, _ := newProductHandler(t, fullSchema)
	e := echo.New()

	form := url.Values{"action": {"get_product"}, "id": {"42"}}
	rec, c := doFormRequest(t, e, "/admin_update_product", form)
	require.NoError(t, h.Handle(c))

	resp := decodeBody(t, rec)
	require.Equal(t, false, resp["success"])
	require.Equal(t, "Product not found", resp["message"])
}

func TestUnknownAction(t *testing.T) {
	h, _ := newProductHandler(t, fullSchema)
	e := echo.New()

	rec, c := doFormRequest(t, e, "/admin_update_product", url.Values{"action": {"destroy"}})
	require.NoError(t, h.Handle(c))

	resp := decodeBody(t, rec)
	require.Equal(t, false, resp["success"])
	require.Equal(t, "Invalid action specified", resp["message"])
}
