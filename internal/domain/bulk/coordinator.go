package bulk

import (
	"context"
	"errors"
	"time"

	"github.com/erp/stockdesk/internal/domain/catalog"
	"github.com/erp/stockdesk/internal/domain/inventory"
	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/google/uuid"
)

// Item error codes beyond the shared domain codes.
const (
	CodeCancelled       = "CANCELLED"
	CodeOperationFailed = "OPERATION_FAILED"
)

// ItemWriter performs the writes for one product. The repositories it
// receives are bound to the item's unit of work.
type ItemWriter func(products catalog.ProductRepository, movements inventory.StockMovementRepository) error

// UnitOfWork runs the writes of a single item atomically: when write returns
// an error nothing it did may remain stored.
type UnitOfWork func(ctx context.Context, write ItemWriter) error

// Coordinator applies one operation across a selection of products and
// reports a result per product instead of failing the batch.
type Coordinator struct {
	products  catalog.ProductRepository
	movements inventory.StockMovementRepository
	unit      UnitOfWork
	now       func() time.Time
}

// NewCoordinator creates a coordinator. movements may be nil, in which case
// stock updates are not written to the audit log. Without WithUnitOfWork
// writes go straight to the given repositories.
func NewCoordinator(products catalog.ProductRepository, movements inventory.StockMovementRepository) *Coordinator {
	c := &Coordinator{
		products:  products,
		movements: movements,
		now:       time.Now,
	}
	c.unit = func(_ context.Context, write ItemWriter) error {
		return write(c.products, c.movements)
	}
	return c
}

// WithUnitOfWork makes each item's product save and movement append commit
// together.
func (c *Coordinator) WithUnitOfWork(unit UnitOfWork) *Coordinator {
	if unit != nil {
		c.unit = unit
	}
	return c
}

// DedupeIDs removes repeated ids, keeping the first occurrence.
func DedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Apply validates op and runs it for each distinct id in order. It returns an
// error only when the operation itself is invalid or the selection is empty;
// per-product problems are recorded in the result.
func (c *Coordinator) Apply(ctx context.Context, op Operation, ids []uuid.UUID) (*Result, error) {
	if op == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidOperation, "Operation is required")
	}
	if !op.Kind().IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidOperation, "Unknown operation: "+string(op.Kind()))
	}
	if err := op.Validate(); err != nil {
		return nil, err
	}

	ids = DedupeIDs(ids)
	if len(ids) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidOperation, "No products selected")
	}

	result := newResult(op.Kind(), len(ids))
	exported := make([]*catalog.Product, 0)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			result.fail(id, CodeCancelled, err.Error())
			continue
		}

		product, err := c.products.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				result.fail(id, shared.CodeProductNotFound, "Product not found")
			} else {
				result.fail(id, codeFor(err), err.Error())
			}
			continue
		}

		if op.Kind() == KindExport {
			exported = append(exported, product)
			result.succeed(id, nil)
			continue
		}

		newValue, events, err := c.applyInUnit(ctx, op, product)
		if err != nil {
			result.fail(id, codeFor(err), err.Error())
			continue
		}
		result.events = append(result.events, events...)
		result.succeed(id, newValue)
	}

	if op.Kind() == KindExport {
		file, err := BuildProductsCSV(exported, c.now())
		if err != nil {
			return nil, err
		}
		result.Export = file
	}

	return result, nil
}

// applyInUnit runs applyOne inside the unit of work. Events are only
// returned once the unit has committed.
func (c *Coordinator) applyInUnit(ctx context.Context, op Operation, p *catalog.Product) (any, []shared.DomainEvent, error) {
	var (
		value  any
		events []shared.DomainEvent
	)
	err := c.unit(ctx, func(products catalog.ProductRepository, movements inventory.StockMovementRepository) error {
		var err error
		value, events, err = applyOne(ctx, op, p, products, movements)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return value, events, nil
}

func applyOne(
	ctx context.Context,
	op Operation,
	p *catalog.Product,
	products catalog.ProductRepository,
	movements inventory.StockMovementRepository,
) (any, []shared.DomainEvent, error) {
	switch o := op.(type) {
	case PriceUpdate:
		if err := p.SetPrice(o.Apply(p.Price)); err != nil {
			return nil, nil, err
		}
		if err := products.Save(ctx, p); err != nil {
			return nil, nil, err
		}
		return p.Price, drainEvents(p), nil

	case CategoryUpdate:
		p.SetCategory(o.Category)
		if err := products.Save(ctx, p); err != nil {
			return nil, nil, err
		}
		return p.Category, drainEvents(p), nil

	case StockUpdate:
		return adjustStock(ctx, o, p, products, movements)

	case Delete:
		if o.Permanent {
			if err := products.Delete(ctx, p.ID); err != nil {
				return nil, nil, err
			}
			return nil, []shared.DomainEvent{catalog.NewProductDeletedEvent(p)}, nil
		}
		p.Deactivate()
		if err := products.Save(ctx, p); err != nil {
			return nil, nil, err
		}
		return p.IsActive(), drainEvents(p), nil
	}

	return nil, nil, shared.NewDomainError(shared.CodeInvalidOperation, "Unsupported operation: "+string(op.Kind()))
}

func adjustStock(
	ctx context.Context,
	o StockUpdate,
	p *catalog.Product,
	products catalog.ProductRepository,
	movements inventory.StockMovementRepository,
) (any, []shared.DomainEvent, error) {
	next, movement, err := inventory.ApplyAdjustment(p.StockQuantity, o.Adjustment, o.Reason)
	if err != nil {
		return nil, nil, err
	}
	if err := p.SetStockQuantity(next); err != nil {
		return nil, nil, err
	}
	if err := products.Save(ctx, p); err != nil {
		return nil, nil, err
	}

	movement.ProductID = p.ID
	movement.Source = inventory.MovementSourceBulk
	if movements != nil {
		if err := movements.Append(ctx, &movement); err != nil {
			return nil, nil, err
		}
	}

	events := append(drainEvents(p), inventory.AdjustmentEvents(p, movement)...)
	return p.StockQuantity, events, nil
}

func drainEvents(p *catalog.Product) []shared.DomainEvent {
	events := p.GetDomainEvents()
	p.ClearDomainEvents()
	return events
}

func codeFor(err error) string {
	if code := shared.CodeOf(err); code != "" {
		return code
	}
	return CodeOperationFailed
}
