package models

// Chart-ready aggregates, recomputed from the orders and products collections
// on every request.

type MonthlySales struct {
	Date  string  `json:"date"` // three-letter month name
	Sales float64 `json:"sales"`
}

type CategorySales struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type ProductSales struct {
	Name  string `json:"name"`
	Sales int    `json:"sales"` // units sold
}

type CustomerMonth struct {
	Month     string `json:"month"`
	New       int    `json:"new"`
	Returning int    `json:"returning"`
}

type DashboardStats struct {
	TotalProducts int     `json:"totalProducts"`
	TotalOrders   int     `json:"totalOrders"`
	TotalRevenue  float64 `json:"totalRevenue"`
	LowStockItems int     `json:"lowStockItems"`
}
