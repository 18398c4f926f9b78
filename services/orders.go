package services

import (
	"context"
	"time"

	"laptopshop-svc/models"
	"laptopshop-svc/store"

	"go.uber.org/zap"
)

// EventPublisher emits order lifecycle events. The Kafka implementation lives
// in the kafka package; a no-op stands in when the broker is disabled.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event models.OrderEvent) error
}

// NoopPublisher drops events, used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderEvent(context.Context, models.OrderEvent) error { return nil }

// OrderService turns carts into orders. Checkout is the one multi-collection
// state transition in the system: stock decrement, order append and cart
// clear go through a single versioned commit, so they all land or none do,
// and two racing checkouts cannot oversell the same unit.
type OrderService struct {
	store     store.Store
	publisher EventPublisher
	logger    *zap.Logger
}

func NewOrderService(s store.Store, publisher EventPublisher, logger *zap.Logger) *OrderService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &OrderService{store: s, publisher: publisher, logger: logger}
}

// legal order status transitions; delivered and cancelled are terminal.
var statusTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered, models.OrderStatusCancelled},
	models.OrderStatusDelivered:  {},
	models.OrderStatusCancelled:  {},
}

func transitionAllowed(from, to models.OrderStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Create converts the current cart into an order for the given customer.
// Stock is re-validated against a fresh catalog snapshot immediately before
// the commit; this is the authoritative check, the cart's own validation only
// narrows the window.
func (svc *OrderService) Create(
	ctx context.Context,
	customer models.OrderCustomer,
	shippingAddress models.ShippingAddress,
	paymentMethod string,
) (models.Order, error) {
	var created models.Order
	err := withRetry(ctx, func(ctx context.Context) error {
		cart, cartVersion, err := loadCollection[models.CartItem](ctx, svc.store, store.Cart)
		if err != nil {
			return err
		}
		if len(cart) == 0 {
			return ErrEmptyCart
		}

		products, inventoryVersion, err := loadCollection[models.Product](ctx, svc.store, store.Inventory)
		if err != nil {
			return err
		}
		orders, ordersVersion, err := loadCollection[models.Order](ctx, svc.store, store.Orders)
		if err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(cart))
		total := 0.0
		for _, line := range cart {
			index := -1
			for i, p := range products {
				if p.ID == line.ID {
					index = i
					break
				}
			}
			if index == -1 {
				return ErrProductNotFound
			}
			product := products[index]
			if product.Quantity < line.Quantity {
				return &StockError{ProductName: product.Name, Available: product.Quantity}
			}

			items = append(items, models.OrderItem{
				ID:       product.ID,
				Name:     product.Name,
				Price:    product.Price,
				Quantity: line.Quantity,
			})
			total += product.Price * float64(line.Quantity)
			products[index].Quantity -= line.Quantity
		}

		created = models.Order{
			ID: timeBasedID("ORD-", func(id string) bool {
				for _, o := range orders {
					if o.ID == id {
						return true
					}
				}
				return false
			}),
			Date:            time.Now().UTC(),
			Status:          models.OrderStatusProcessing,
			Total:           total,
			Customer:        customer,
			Items:           items,
			ShippingAddress: shippingAddress,
			PaymentMethod:   paymentMethod,
		}

		inventoryWrite, err := collectionWrite(store.Inventory, products, inventoryVersion)
		if err != nil {
			return err
		}
		ordersWrite, err := collectionWrite(store.Orders, append(orders, created), ordersVersion)
		if err != nil {
			return err
		}
		cartWrite, err := collectionWrite(store.Cart, []models.CartItem{}, cartVersion)
		if err != nil {
			return err
		}
		return svc.store.Commit(ctx, inventoryWrite, ordersWrite, cartWrite)
	})
	if err != nil {
		return models.Order{}, err
	}

	svc.logger.Info("Order created",
		zap.String("order_id", created.ID),
		zap.String("customer_id", created.Customer.ID),
		zap.Float64("total", created.Total),
	)

	event := models.OrderEvent{
		OrderID:    created.ID,
		CustomerID: created.Customer.ID,
		Total:      created.Total,
		Status:     created.Status,
		EventType:  "order_created",
	}
	if err := svc.publisher.PublishOrderEvent(ctx, event); err != nil {
		// The order is committed; a lost event is not worth failing checkout.
		svc.logger.Error("Failed to publish order_created event", zap.Error(err))
	}

	return created, nil
}

func (svc *OrderService) List(ctx context.Context) ([]models.Order, error) {
	orders, _, err := loadCollection[models.Order](ctx, svc.store, store.Orders)
	return orders, err
}

func (svc *OrderService) Get(ctx context.Context, id string) (models.Order, error) {
	orders, _, err := loadCollection[models.Order](ctx, svc.store, store.Orders)
	if err != nil {
		return models.Order{}, err
	}
	for _, o := range orders {
		if o.ID == id {
			return o, nil
		}
	}
	return models.Order{}, ErrOrderNotFound
}

func (svc *OrderService) ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	orders, _, err := loadCollection[models.Order](ctx, svc.store, store.Orders)
	if err != nil {
		return nil, err
	}
	mine := []models.Order{}
	for _, o := range orders {
		if o.Customer.ID == customerID {
			mine = append(mine, o)
		}
	}
	return mine, nil
}

// UpdateStatus advances an order through the status machine. Anything outside
// processing→{shipped,cancelled} and shipped→{delivered,cancelled} is
// rejected.
func (svc *OrderService) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	var updated models.Order
	err := withRetry(ctx, func(ctx context.Context) error {
		orders, version, err := loadCollection[models.Order](ctx, svc.store, store.Orders)
		if err != nil {
			return err
		}

		index := -1
		for i, o := range orders {
			if o.ID == id {
				index = i
				break
			}
		}
		if index == -1 {
			return ErrOrderNotFound
		}

		if !transitionAllowed(orders[index].Status, status) {
			return &TransitionError{From: string(orders[index].Status), To: string(status)}
		}

		orders[index].Status = status
		updated = orders[index]

		write, err := collectionWrite(store.Orders, orders, version)
		if err != nil {
			return err
		}
		return svc.store.Commit(ctx, write)
	})
	if err != nil {
		return models.Order{}, err
	}

	svc.logger.Info("Order status updated",
		zap.String("order_id", id),
		zap.String("status", string(status)),
	)

	event := models.OrderEvent{
		OrderID:    updated.ID,
		CustomerID: updated.Customer.ID,
		Total:      updated.Total,
		Status:     updated.Status,
		EventType:  "order_status_changed",
	}
	if err := svc.publisher.PublishOrderEvent(ctx, event); err != nil {
		svc.logger.Error("Failed to publish order_status_changed event", zap.Error(err))
	}

	return updated, nil
}
