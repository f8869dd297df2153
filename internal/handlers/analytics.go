package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// AnalyticsHandler aggregates ORDERS/ORDERS_ITEM/PRODUCT into revenue,
// order-count, monthly-trend and category-share statistics.
type AnalyticsHandler struct {
	DB *gorm.DB
}

var categoryBuckets = []string{"phone", "tablet", "laptop", "watch", "accessories"}

// classifyCategory maps a free-form category string onto one of the fixed
// buckets by case-insensitive substring match; anything else falls back to
// accessories.
func classifyCategory(raw string) string {
	cat := strings.ToLower(raw)
	for _, b := range []string{"phone", "tablet", "laptop", "watch"} {
		if strings.Contains(cat, b) {
			return b
		}
	}
	return "accessories"
}

// orderFilter holds the WHERE fragment applied at the ORDERS level.
// Category filtering goes through an EXISTS over the items join so that
// per-order amounts are never multiplied by the item count.
type orderFilter struct {
	clause string
	params []any
}

func buildOrderFilter(month, year, category string) orderFilter {
	var conds []string
	var params []any

	if month != "" && month != "all" {
		if len(month) == 1 {
			month = "0" + month
		}
		conds = append(conds, "strftime('%m', o.Date) = ?")
		params = append(params, month)
	}
	if year != "" && year != "all" {
		conds = append(conds, "strftime('%Y', o.Date) = ?")
		params = append(params, year)
	}
	if category != "" && category != "all" {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM ORDERS_ITEM oi
			JOIN PRODUCT p ON oi.ProductID = p.ProductID
			WHERE oi.OrderID = o.OrderID AND p.Category LIKE ?)`)
		params = append(params, "%"+category+"%")
	}

	if len(conds) == 0 {
		return orderFilter{}
	}
	return orderFilter{clause: "WHERE " + strings.Join(conds, " AND "), params: params}
}

// itemFilter is the same filter expressed against the joined
// ORDERS o / ORDERS_ITEM oi / PRODUCT p row set.
func buildItemFilter(month, year, category string) orderFilter {
	var conds []string
	var params []any

	if month != "" && month != "all" {
		if len(month) == 1 {
			month = "0" + month
		}
		conds = append(conds, "strftime('%m', o.Date) = ?")
		params = append(params, month)
	}
	if year != "" && year != "all" {
		conds = append(conds, "strftime('%Y', o.Date) = ?")
		params = append(params, year)
	}
	if category != "" && category != "all" {
		conds = append(conds, "p.Category LIKE ?")
		params = append(params, "%"+category+"%")
	}

	if len(conds) == 0 {
		return orderFilter{}
	}
	return orderFilter{clause: "WHERE " + strings.Join(conds, " AND "), params: params}
}

type statsJSON struct {
	TotalRevenue   float64 `json:"totalRevenue"`
	TotalOrders    int     `json:"totalOrders"`
	AverageOrder   float64 `json:"averageOrder"`
	ConversionRate float64 `json:"conversionRate"`
}

type topProductJSON struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Units    int     `json:"units"`
	Revenue  float64 `json:"revenue"`
}

func (h *AnalyticsHandler) Handle(c echo.Context) error {
	month := c.QueryParam("month")
	year := c.QueryParam("year")
	category := c.QueryParam("category")

	of := buildOrderFilter(month, year, category)
	itf := buildItemFilter(month, year, category)

	var totals struct {
		TotalRevenue float64
		TotalOrders  int
	}
	err := h.DB.Raw(`
		SELECT COALESCE(SUM(o.TotalAmount), 0) AS total_revenue,
		       COUNT(o.OrderID)                AS total_orders
		FROM ORDERS o `+of.clause, of.params...).Scan(&totals).Error
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": err.Error()})
	}

	avgOrder := 0.0
	if totals.TotalOrders > 0 {
		avgOrder = totals.TotalRevenue / float64(totals.TotalOrders)
	}

	// Monthly series, zero-filled; index 0 is January.
	monthlySales := make([]float64, 12)
	var monthRows []struct {
		Month   string
		Revenue float64
	}
	err = h.DB.Raw(`
		SELECT strftime('%m', o.Date) AS month,
		       SUM(o.TotalAmount)     AS revenue
		FROM ORDERS o `+of.clause+`
		GROUP BY month
		ORDER BY month`, of.params...).Scan(&monthRows).Error
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": err.Error()})
	}
	for _, row := range monthRows {
		if m, err := strconv.Atoi(row.Month); err == nil && m >= 1 && m <= 12 {
			monthlySales[m-1] = row.Revenue
		}
	}

	// Category revenue distribution over item-level revenue.
	var catRows []struct {
		Category string
		Revenue  float64
	}
	err = h.DB.Raw(`
		SELECT p.Category              AS category,
		       SUM(p.Price * oi.Quantity) AS revenue
		FROM ORDERS_ITEM oi
		JOIN PRODUCT p ON oi.ProductID = p.ProductID
		JOIN ORDERS o ON oi.OrderID = o.OrderID `+itf.clause+`
		GROUP BY p.Category
		ORDER BY revenue DESC`, itf.params...).Scan(&catRows).Error
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": err.Error()})
	}

	categories := make(map[string]float64, len(categoryBuckets))
	for _, b := range categoryBuckets {
		categories[b] = 0
	}
	totalCatRevenue := 0.0
	for _, row := range catRows {
		categories[classifyCategory(row.Category)] += row.Revenue
		totalCatRevenue += row.Revenue
	}
	// Shares are rounded independently, so they can sum to slightly more or
	// less than 100.
	if totalCatRevenue > 0 {
		for b, rev := range categories {
			categories[b] = math.Round(rev / totalCatRevenue * 100)
		}
	}

	var topRows []struct {
		Name     string
		Category string
		Units    int
		Revenue  float64
	}
	err = h.DB.Raw(`
		SELECT p.Name                     AS name,
		       p.Category                 AS category,
		       SUM(oi.Quantity)           AS units,
		       SUM(p.Price * oi.Quantity) AS revenue
		FROM ORDERS_ITEM oi
		JOIN PRODUCT p ON oi.ProductID = p.ProductID
		JOIN ORDERS o ON oi.OrderID = o.OrderID `+itf.clause+`
		GROUP BY p.ProductID
		ORDER BY revenue DESC
		LIMIT 5`, itf.params...).Scan(&topRows).Error
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": err.Error()})
	}

	topProducts := make([]topProductJSON, len(topRows))
	for i, row := range topRows {
		topProducts[i] = topProductJSON{
			Name:     row.Name,
			Category: classifyCategory(row.Category),
			Units:    row.Units,
			Revenue:  row.Revenue,
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"stats": statsJSON{
			TotalRevenue:   math.Round(totals.TotalRevenue*100) / 100,
			TotalOrders:    totals.TotalOrders,
			AverageOrder:   math.Round(avgOrder*100) / 100,
			ConversionRate: 3.2,
		},
		"monthlySales": monthlySales,
		"categoryData": categories,
		"topProducts":  topProducts,
	})
}
