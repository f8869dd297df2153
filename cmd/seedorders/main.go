// Command seedorders generates synthetic order data for the analytics
// dashboard: a CSV export and, with -load, rows in ORDERS/ORDERS_ITEM.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"techshop/internal/config"
	"techshop/internal/models"
	"techshop/internal/storage"
)

type catalogEntry struct {
	ID       int
	Name     string
	Price    float64
	Category string
}

// Mirrors the demo catalog the dashboard is seeded with.
var catalog = []catalogEntry{
	{2, "iPhone 16", 999.0, "phone"},
	{3, "Apple Watch Ultra", 2000.0, "watch"},
	{4, "Apple Watch", 499.0, "watch"},
	{5, "MacBook", 2500.0, "laptop"},
	{6, "iPad Pro", 1500.0, "tablet"},
}

var statuses = []string{"Completed", "Processing", "Shipped", "Delivered"}

func main() {
	numOrders := flag.Int("n", 500, "number of orders to generate")
	out := flag.String("out", "orders_data.csv", "CSV output file")
	load := flag.Bool("load", false, "also insert the generated orders into the database")
	seed := flag.Int64("seed", 0, "random seed (0 = random)")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	if *seed == 0 {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	orders, items := generate(rng, *numOrders)

	if err := writeCSV(*out, orders, items); err != nil {
		log.Fatalf("csv export failed: %v", err)
	}
	fmt.Printf("Generated %d orders, exported to %s\n", len(orders), *out)

	if *load {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatal(err)
		}
		db, err := storage.Open(cfg)
		if err != nil {
			log.Fatalf("database init error: %v", err)
		}
		if err := db.Create(&orders).Error; err != nil {
			log.Fatalf("order insert failed: %v", err)
		}
		if err := db.Create(&items).Error; err != nil {
			log.Fatalf("order item insert failed: %v", err)
		}
		fmt.Printf("Loaded %d orders and %d items into the database\n", len(orders), len(items))
	}
}

func generate(rng *rand.Rand, n int) ([]models.Order, []models.OrderItem) {
	var orders []models.Order
	var items []models.OrderItem

	for i := 0; i < n; i++ {
		year := 2022 + rng.Intn(2)
		month := 1 + rng.Intn(12)
		day := 1 + rng.Intn(daysIn(month, year))
		date := fmt.Sprintf("%d-%02d-%02d", year, month, day)

		order := models.Order{
			Date:       date,
			CustomerID: 1 + rng.Intn(20),
			Status:     statuses[rng.Intn(len(statuses))],
		}

		numItems := 1 + rng.Intn(3)
		picks := rng.Perm(len(catalog))[:numItems]
		total := 0.0
		var orderItems []models.OrderItem
		for _, p := range picks {
			entry := catalog[p]
			qty := 1 + rng.Intn(3)
			total += entry.Price * float64(qty)
			orderItems = append(orderItems, models.OrderItem{
				ProductID: entry.ID,
				Quantity:  qty,
			})
		}
		order.TotalAmount = total
		order.ID = i + 1
		for j := range orderItems {
			orderItems[j].OrderID = order.ID
		}

		orders = append(orders, order)
		items = append(items, orderItems...)
	}
	return orders, items
}

func daysIn(month, year int) int {
	switch month {
	case 4, 6, 9, 11:
		return 30
	case 2:
		if year%4 == 0 {
			return 29
		}
		return 28
	default:
		return 31
	}
}

func writeCSV(path string, orders []models.Order, items []models.OrderItem) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"OrderID", "Date", "CustomerID", "TotalAmount", "Status",
		"ProductID", "ProductName", "Category", "Quantity", "UnitPrice", "ItemTotal",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	byOrder := make(map[int]models.Order, len(orders))
	for _, o := range orders {
		byOrder[o.ID] = o
	}

	for _, item := range items {
		order := byOrder[item.OrderID]
		entry := lookupCatalog(item.ProductID)
		record := []string{
			fmt.Sprint(order.ID),
			order.Date,
			fmt.Sprint(order.CustomerID),
			fmt.Sprintf("%.2f", order.TotalAmount),
			order.Status,
			fmt.Sprint(item.ProductID),
			entry.Name,
			entry.Category,
			fmt.Sprint(item.Quantity),
			fmt.Sprintf("%.2f", entry.Price),
			fmt.Sprintf("%.2f", entry.Price*float64(item.Quantity)),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func lookupCatalog(id int) catalogEntry {
	for _, e := range catalog {
		if e.ID == id {
			return e
		}
	}
	return catalogEntry{ID: id, Name: "unknown", Category: "accessories"}
}
