package services

import (
	"context"

	"laptopshop-svc/models"
	"laptopshop-svc/store"

	"go.uber.org/zap"
)

// CatalogService owns the inventory collection: product CRUD plus the stock
// reads the cart and order services validate against.
type CatalogService struct {
	store  store.Store
	logger *zap.Logger
}

func NewCatalogService(s store.Store, logger *zap.Logger) *CatalogService {
	return &CatalogService{store: s, logger: logger}
}

func (svc *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	products, _, err := loadCollection[models.Product](ctx, svc.store, store.Inventory)
	return products, err
}

func (svc *CatalogService) GetByID(ctx context.Context, id string) (models.Product, error) {
	products, _, err := loadCollection[models.Product](ctx, svc.store, store.Inventory)
	if err != nil {
		return models.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (svc *CatalogService) Add(ctx context.Context, req models.CreateProductRequest) (models.Product, error) {
	var created models.Product
	err := withRetry(ctx, func(ctx context.Context) error {
		products, version, err := loadCollection[models.Product](ctx, svc.store, store.Inventory)
		if err != nil {
			return err
		}

		created = models.Product{
			ID: timeBasedID("", func(id string) bool {
				for _, p := range products {
					if p.ID == id {
						return true
					}
				}
				return false
			}),
			Name:           req.Name,
			Price:          req.Price,
			Quantity:       req.Quantity,
			Category:       req.Category,
			Description:    req.Description,
			Image:          req.Image,
			Specifications: req.Specifications,
		}

		write, err := collectionWrite(store.Inventory, append(products, created), version)
		if err != nil {
			return err
		}
		return svc.store.Commit(ctx, write)
	})
	if err != nil {
		return models.Product{}, err
	}

	svc.logger.Info("Product created",
		zap.String("product_id", created.ID),
		zap.String("name", created.Name),
	)
	return created, nil
}

func (svc *CatalogService) Update(ctx context.Context, id string, req models.UpdateProductRequest) (models.Product, error) {
	var updated models.Product
	err := withRetry(ctx, func(ctx context.Context) error {
		products, version, err := loadCollection[models.Product](ctx, svc.store, store.Inventory)
		if err != nil {
			return err
		}

		index := -1
		for i, p := range products {
			if p.ID == id {
				index = i
				break
			}
		}
		if index == -1 {
			return ErrProductNotFound
		}

		products[index] = mergeProduct(products[index], req)
		updated = products[index]

		write, err := collectionWrite(store.Inventory, products, version)
		if err != nil {
			return err
		}
		return svc.store.Commit(ctx, write)
	})
	if err != nil {
		return models.Product{}, err
	}

	svc.logger.Info("Product updated", zap.String("product_id", id))
	return updated, nil
}

func (svc *CatalogService) Delete(ctx context.Context, id string) error {
	err := withRetry(ctx, func(ctx context.Context) error {
		products, version, err := loadCollection[models.Product](ctx, svc.store, store.Inventory)
		if err != nil {
			return err
		}

		filtered := products[:0:0]
		for _, p := range products {
			if p.ID != id {
				filtered = append(filtered, p)
			}
		}
		if len(filtered) == len(products) {
			return ErrProductNotFound
		}

		// No cascade: historical orders snapshot item data and stay intact.
		write, err := collectionWrite(store.Inventory, filtered, version)
		if err != nil {
			return err
		}
		return svc.store.Commit(ctx, write)
	})
	if err != nil {
		return err
	}

	svc.logger.Info("Product deleted", zap.String("product_id", id))
	return nil
}

// mergeProduct applies a partial update. Top-level fields replace; the nested
// specification object merges field-by-field so editing one spec field never
// drops the others.
func mergeProduct(p models.Product, req models.UpdateProductRequest) models.Product {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Quantity != nil {
		p.Quantity = *req.Quantity
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Image != nil {
		p.Image = *req.Image
	}
	if req.Specifications != nil {
		specs := models.Specifications{}
		if p.Specifications != nil {
			specs = *p.Specifications
		}
		if req.Specifications.Processor != nil {
			specs.Processor = *req.Specifications.Processor
		}
		if req.Specifications.RAM != nil {
			specs.RAM = *req.Specifications.RAM
		}
		if req.Specifications.Storage != nil {
			specs.Storage = *req.Specifications.Storage
		}
		if req.Specifications.Graphics != nil {
			specs.Graphics = *req.Specifications.Graphics
		}
		if req.Specifications.Display != nil {
			specs.Display = *req.Specifications.Display
		}
		if req.Specifications.Battery != nil {
			specs.Battery = *req.Specifications.Battery
		}
		p.Specifications = &specs
	}
	return p
}
