package inventory_test

import (
	"context"
	"sync"

	"github.com/jhoicas/Pescaderia-api/internal/application/inventory"
	"github.com/jhoicas/Pescaderia-api/internal/domain"
	"github.com/jhoicas/Pescaderia-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Pescaderia-api/internal/domain/inventory"
	"github.com/jhoicas/Pescaderia-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria con semántica transaccional (copia, ejecuta, confirma si no hay error)
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	products  map[string]*entity.Product
	vectors   map[string]domaininv.StockVector
	variants  map[string][]*entity.ProductVariant
	movements []*entity.StockMovement
	orders    map[string]*entity.Order
	locked    []string
}

func newMemStore() *memStore {
	return &memStore{
		products: map[string]*entity.Product{},
		vectors:  map[string]domaininv.StockVector{},
		variants: map[string][]*entity.ProductVariant{},
		orders:   map[string]*entity.Order{},
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.products {
		p := *v
		c.products[k] = &p
	}
	for k, v := range s.vectors {
		c.vectors[k] = v
	}
	for k, v := range s.variants {
		c.variants[k] = append([]*entity.ProductVariant(nil), v...)
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	c.movements = append(c.movements, s.movements...)
	c.locked = append(c.locked, s.locked...)
	return c
}

func (s *memStore) addProduct(p *entity.Product, v domaininv.StockVector, variants ...*entity.ProductVariant) {
	s.products[p.ID] = p
	s.vectors[p.ID] = v
	s.variants[p.ID] = variants
}

// fakeTxRunner aplica los cambios sólo si fn termina sin error.
// Con conflicts > 0 descarta esa cantidad de intentos ya ejecutados y vuelve a llamar a fn,
// como hace el runner real ante un 40001 en el Commit.
type fakeTxRunner struct {
	mu        sync.Mutex
	store     *memStore
	runs      int
	conflicts int
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	orderRepo repository.OrderRepository,
) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		r.runs++
		tx := r.store.clone()
		if err := fn(memProducts{tx}, memStock{tx}, memMovements{tx}, memOrders{tx}); err != nil {
			return err
		}
		if r.conflicts > 0 {
			r.conflicts--
			continue
		}
		*r.store = *tx
		return nil
	}
}

type memProducts struct{ s *memStore }

func (m memProducts) Create(_ context.Context, p *entity.Product) error {
	if _, ok := m.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	m.s.products[p.ID] = p
	return nil
}

func (m memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := m.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m memProducts) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	m.s.locked = append(m.s.locked, id)
	return m.GetByID(ctx, id)
}

func (m memProducts) Update(_ context.Context, p *entity.Product) error {
	m.s.products[p.ID] = p
	return nil
}

func (m memProducts) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range m.s.products {
		out = append(out, p)
	}
	return out, nil
}

type memStock struct{ s *memStore }

func (m memStock) ListVariants(_ context.Context, productID string) ([]*entity.ProductVariant, error) {
	return m.s.variants[productID], nil
}

func (m memStock) CreateVariants(_ context.Context, variants []*entity.ProductVariant) error {
	for _, v := range variants {
		m.s.variants[v.ProductID] = append(m.s.variants[v.ProductID], v)
	}
	return nil
}

func (m memStock) GetVector(_ context.Context, p *entity.Product) (domaininv.StockVector, error) {
	return m.s.vectors[p.ID], nil
}

func (m memStock) GetVectorForUpdate(ctx context.Context, p *entity.Product) (domaininv.StockVector, error) {
	return m.GetVector(ctx, p)
}

func (m memStock) SaveVector(_ context.Context, p *entity.Product, v domaininv.StockVector) error {
	m.s.vectors[p.ID] = v
	if stored, ok := m.s.products[p.ID]; ok {
		stored.TotalStock = stored.StockSummary(v)
	}
	return nil
}

type memMovements struct{ s *memStore }

func (m memMovements) Create(_ context.Context, mov *entity.StockMovement) error {
	m.s.movements = append(m.s.movements, mov)
	return nil
}

func (m memMovements) ListByProduct(_ context.Context, productID string, _, _ int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, mov := range m.s.movements {
		if mov.ProductID == productID {
			out = append(out, mov)
		}
	}
	return out, nil
}

type memOrders struct{ s *memStore }

func (m memOrders) Create(_ context.Context, o *entity.Order) error {
	m.s.orders[o.ID] = o
	return nil
}

func (m memOrders) GetByID(_ context.Context, id string) (*entity.Order, error) {
	return m.s.orders[id], nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Notificaciones post-commit
// ──────────────────────────────────────────────────────────────────────────────

type recordingCache struct{ invalidated []string }

func (c *recordingCache) Invalidate(_ context.Context, ids ...string) error {
	c.invalidated = append(c.invalidated, ids...)
	return nil
}

type recordingPublisher struct{ events []inventory.StockChangedEvent }

func (p *recordingPublisher) PublishStockChanged(_ context.Context, evt inventory.StockChangedEvent) error {
	p.events = append(p.events, evt)
	return nil
}

type mapReader map[string]*inventory.StockSnapshot

func (m mapReader) GetSnapshot(_ context.Context, id string) (*inventory.StockSnapshot, error) {
	s, ok := m[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}
