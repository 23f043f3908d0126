package bulk

import (
	"context"
	"sync"

	"github.com/erp/stockdesk/internal/domain/catalog"
	"github.com/erp/stockdesk/internal/domain/inventory"
	"github.com/erp/stockdesk/internal/domain/shared"
	"github.com/google/uuid"
)

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
	saveErr  map[uuid.UUID]error
	saves    int
}

func newFakeProductRepo(products ...*catalog.Product) *fakeProductRepo {
	r := &fakeProductRepo{
		products: make(map[uuid.UUID]*catalog.Product),
		saveErr:  make(map[uuid.UUID]error),
	}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) FindBySKU(_ context.Context, sku string) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindAll(ctx context.Context, _ shared.Filter) ([]catalog.Product, error) {
	return r.ListAll(ctx)
}

func (r *fakeProductRepo) ListAll(_ context.Context) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProductRepo) Save(_ context.Context, p *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.saveErr[p.ID]; err != nil {
		return err
	}
	r.saves++
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.products)), nil
}

func (r *fakeProductRepo) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	_, err := r.FindBySKU(ctx, sku)
	return err == nil, nil
}

func (r *fakeProductRepo) get(id uuid.UUID) *catalog.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id]
}

type fakeMovementRepo struct {
	movements []inventory.StockMovement
	appendErr error
}

func (r *fakeMovementRepo) Append(_ context.Context, m *inventory.StockMovement) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *fakeMovementRepo) FindByProduct(_ context.Context, productID uuid.UUID, _ shared.Filter) ([]inventory.StockMovement, error) {
	out := make([]inventory.StockMovement, 0)
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	ms, _ := r.FindByProduct(ctx, productID, shared.DefaultFilter())
	return int64(len(ms)), nil
}

// rollbackUnit restores the product and movement stores when an item fails,
// standing in for a database transaction.
func rollbackUnit(products *fakeProductRepo, movements *fakeMovementRepo) UnitOfWork {
	return func(_ context.Context, write ItemWriter) error {
		products.mu.Lock()
		snapshot := make(map[uuid.UUID]*catalog.Product, len(products.products))
		for id, p := range products.products {
			snapshot[id] = p
		}
		products.mu.Unlock()
		logged := len(movements.movements)

		if err := write(products, movements); err != nil {
			products.mu.Lock()
			products.products = snapshot
			products.mu.Unlock()
			movements.movements = movements.movements[:logged]
			return err
		}
		return nil
	}
}
