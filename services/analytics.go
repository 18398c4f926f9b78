package services

import (
	"context"
	"math"
	"sort"
	"strings"

	"laptopshop-svc/models"
	"laptopshop-svc/store"

	"go.uber.org/zap"
)

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// AnalyticsService derives chart-ready aggregates by scanning the orders and
// products collections at read time. Nothing is cached or incremental. When
// there are no orders yet, each aggregate returns a fixed sample dataset so
// the admin charts are not blank — a display convenience only.
type AnalyticsService struct {
	store             store.Store
	lowStockThreshold int
	logger            *zap.Logger
}

func NewAnalyticsService(s store.Store, lowStockThreshold int, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{store: s, lowStockThreshold: lowStockThreshold, logger: logger}
}

// MonthlySales buckets non-cancelled orders by calendar month, summing order
// totals.
func (svc *AnalyticsService) MonthlySales(ctx context.Context) ([]models.MonthlySales, error) {
	orders, _, err := loadCollection[models.Order](ctx, svc.store, store.Orders)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return sampleMonthlySales(), nil
	}

	data := make([]models.MonthlySales, 12)
	for i, name := range monthNames {
		data[i] = models.MonthlySales{Date: name}
	}
	for _, order := range orders {
		if order.Status == models.OrderStatusCancelled {
			continue
		}
		data[int(order.Date.Month())-1].Sales += order.Total
	}
	return data, nil
}

// CategorySales resolves each order line's category through a fresh
// product-id lookup and sums price×quantity per category. Lines whose product
// no longer exists count as "Unknown".
func (svc *AnalyticsService) CategorySales(ctx context.Context) ([]models.CategorySales, error) {
	orders, _, err := loadCollection[models.Order](ctx, svc.store, store.Orders)
	if err != nil {
		return nil, err
	}
	products, _, err := loadCollection[models.Product](ctx, svc.store, store.Inventory)
	if err != nil {
		return nil, err
	}

	categories := make(map[string]string, len(products))
	for _, p := range products {
		categories[p.ID] = p.Category
	}

	totals := map[string]float64{}
	for _, order := range orders {
		if order.Status == models.OrderStatusCancelled {
			continue
		}
		for _, item := range order.Items {
			category := categories[item.ID]
			if category == "" {
				category = "Unknown"
			}
			totals[category] += item.Price * float64(item.Quantity)
		}
	}

	result := make([]models.CategorySales, 0, len(totals))
	for name, value := range totals {
		result = append(result, models.CategorySales{
			Name:  titleCase(name),
			Value: math.Round(value),
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Value > result[j].Value })

	if len(result) == 0 {
		return sampleCategorySales(), nil
	}
	return result, nil
}

// TopProducts ranks products by units sold across non-cancelled orders and
// keeps the top five.
func (svc *AnalyticsService) TopProducts(ctx context.Context) ([]models.ProductSales, error) {
	orders, _, err := loadCollection[models.Order](ctx, svc.store, store.Orders)
	if err != nil {
		return nil, err
	}

	type tally struct {
		name  string
		sales int
	}
	byProduct := map[string]*tally{}
	for _, order := range orders {
		if order.Status == models.OrderStatusCancelled {
			continue
		}
		for _, item := range order.Items {
			t, ok := byProduct[item.ID]
			if !ok {
				t = &tally{name: item.Name}
				byProduct[item.ID] = t
			}
			t.sales += item.Quantity
		}
	}

	result := make([]models.ProductSales, 0, len(byProduct))
	for _, t := range byProduct {
		result = append(result, models.ProductSales{Name: t.name, Sales: t.sales})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Sales > result[j].Sales })
	if len(result) > 5 {
		result = result[:5]
	}

	if len(result) == 0 {
		return sampleTopProducts(), nil
	}
	return result, nil
}

// CustomerBreakdown classifies each customer's first order as "new" and every
// later one as "returning", bucketed by the month the order was placed.
func (svc *AnalyticsService) CustomerBreakdown(ctx context.Context) ([]models.CustomerMonth, error) {
	orders, _, err := loadCollection[models.Order](ctx, svc.store, store.Orders)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return sampleCustomerBreakdown(), nil
	}

	data := make([]models.CustomerMonth, 12)
	for i, name := range monthNames {
		data[i] = models.CustomerMonth{Month: name}
	}

	byCustomer := map[string][]models.Order{}
	for _, order := range orders {
		byCustomer[order.Customer.ID] = append(byCustomer[order.Customer.ID], order)
	}
	for _, customerOrders := range byCustomer {
		sort.Slice(customerOrders, func(i, j int) bool {
			return customerOrders[i].Date.Before(customerOrders[j].Date)
		})
		for i, order := range customerOrders {
			month := int(order.Date.Month()) - 1
			if i == 0 {
				data[month].New++
			} else {
				data[month].Returning++
			}
		}
	}
	return data, nil
}

// DashboardStats backs the admin landing page counters. Revenue sums every
// order regardless of status, matching the storefront.
func (svc *AnalyticsService) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	orders, _, err := loadCollection[models.Order](ctx, svc.store, store.Orders)
	if err != nil {
		return models.DashboardStats{}, err
	}
	products, _, err := loadCollection[models.Product](ctx, svc.store, store.Inventory)
	if err != nil {
		return models.DashboardStats{}, err
	}

	stats := models.DashboardStats{
		TotalProducts: len(products),
		TotalOrders:   len(orders),
	}
	for _, order := range orders {
		stats.TotalRevenue += order.Total
	}
	for _, product := range products {
		if product.Quantity <= svc.lowStockThreshold {
			stats.LowStockItems++
		}
	}
	return stats, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func sampleMonthlySales() []models.MonthlySales {
	sales := []float64{4000, 3000, 5000, 7000, 6000, 8000, 10000, 9000, 11000, 12000, 14000, 16000}
	data := make([]models.MonthlySales, 12)
	for i, name := range monthNames {
		data[i] = models.MonthlySales{Date: name, Sales: sales[i]}
	}
	return data
}

func sampleCategorySales() []models.CategorySales {
	return []models.CategorySales{
		{Name: "Electronics", Value: 45},
		{Name: "Furniture", Value: 20},
		{Name: "Home", Value: 15},
		{Name: "Office", Value: 10},
		{Name: "Food", Value: 10},
	}
}

func sampleTopProducts() []models.ProductSales {
	return []models.ProductSales{
		{Name: "Premium Wireless Headphones", Sales: 120},
		{Name: "Smart Fitness Watch", Sales: 95},
		{Name: "Ergonomic Office Chair", Sales: 85},
		{Name: "Wireless Charging Pad", Sales: 70},
		{Name: "Smart LED Bulb", Sales: 65},
	}
}

func sampleCustomerBreakdown() []models.CustomerMonth {
	data := make([]models.CustomerMonth, 12)
	for i, name := range monthNames {
		data[i] = models.CustomerMonth{Month: name, New: 20 + i*5, Returning: 30 + i*5}
	}
	return data
}
