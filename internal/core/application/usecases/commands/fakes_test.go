package commands_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/account"
	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/product"
	"marketplace/internal/core/domain/model/worker"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 4, 10, 8, 30, 0, 0, time.UTC)

func fixedClock() time.Time {
	return fixedNow
}

// memStore backs the fake units of work. Every read hands out a fresh copy,
// so an aggregate changes in the store only through a repository write.
type memStore struct {
	mu              sync.Mutex
	products        map[kernel.UUID]*product.Product
	orders          map[kernel.UUID]order.State
	deliveries      map[kernel.UUID]delivery.State
	accounts        map[kernel.UUID]*account.Account
	workers         map[kernel.UUID]*worker.DeliveryWorker
	orderSeq        int64
	deliverySeq     int64
	releases        map[int64]ports.PendingStockRelease
	releaseSeq      int64
	failRelease     map[kernel.UUID]error
	// failOrderUpdate makes every order update fail.
	failOrderUpdate error
}

func newMemStore() *memStore {
	return &memStore{
		products:    map[kernel.UUID]*product.Product{},
		orders:      map[kernel.UUID]order.State{},
		deliveries:  map[kernel.UUID]delivery.State{},
		accounts:    map[kernel.UUID]*account.Account{},
		workers:     map[kernel.UUID]*worker.DeliveryWorker{},
		orderSeq:    order.FirstNumber - 1,
		releases:    map[int64]ports.PendingStockRelease{},
		failRelease: map[kernel.UUID]error{},
	}
}

func cloneProduct(p *product.Product) *product.Product {
	c, err := product.RestoreProduct(p.ID(), p.CompanyID(), p.Name(), p.UnitPrice(), p.Unit(),
		p.StockQuantity(), p.IsActive(), p.IsAvailable(), p.OrderCount())
	if err != nil {
		panic(err)
	}
	return c
}

func (s *memStore) addCompany(t *testing.T, active bool) *account.Account {
	t.Helper()
	a, err := account.RestoreAccount(kernel.NewUUID(), account.Company, "Fresh Foods Ltd", active, "Plot 4, Tongi I/A", "Tongi", "01700000000")
	require.NoError(t, err)
	s.accounts[a.ID()] = a
	return a
}

func (s *memStore) addShopkeeper(t *testing.T) *account.Account {
	t.Helper()
	a, err := account.RestoreAccount(kernel.NewUUID(), account.Shopkeeper, "Rahman Store", true, "22 Lake Circus", "Dhanmondi", "01800000000")
	require.NoError(t, err)
	s.accounts[a.ID()] = a
	return a
}

func (s *memStore) addProduct(t *testing.T, companyID kernel.UUID, name, price string, stock int) *product.Product {
	t.Helper()
	p, err := product.NewProduct(kernel.NewUUID(), companyID, name, kernel.MustMoney(price), "pcs", stock)
	require.NoError(t, err)
	s.products[p.ID()] = p
	return p
}

func (s *memStore) addWorker(t *testing.T, name string, areas []string, active, online bool) *worker.DeliveryWorker {
	t.Helper()
	w, err := worker.RestoreDeliveryWorker(kernel.NewUUID(), name, "019", areas, active, online, worker.Vehicle{Type: "motorbike"})
	require.NoError(t, err)
	s.workers[w.ID()] = w
	return w
}

func (s *memStore) stock(id kernel.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].StockQuantity()
}

func (s *memStore) order(t *testing.T, id kernel.UUID) *order.Order {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	o, err := order.RestoreOrder(s.orders[id])
	require.NoError(t, err)
	return o
}

func (s *memStore) delivery(t *testing.T, id kernel.UUID) *delivery.Delivery {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := delivery.RestoreDelivery(s.deliveries[id])
	require.NoError(t, err)
	return d
}

// fakeUoW satisfies every unit of work interface the handlers need. Writes
// land in the store at once and record their inverse; Rollback before Commit
// replays the inverses newest first.
type fakeUoW struct {
	s         *memStore
	undo      []func()
	committed bool
}

func (u *fakeUoW) Begin(context.Context) error { return nil }

func (u *fakeUoW) Commit(context.Context) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	u.undo = nil
	u.committed = true
	return nil
}

func (u *fakeUoW) Rollback(context.Context) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if u.committed {
		return nil
	}
	for i := len(u.undo) - 1; i >= 0; i-- {
		u.undo[i]()
	}
	u.undo = nil
	return nil
}

// record must be called with s.mu held.
func (u *fakeUoW) record(inverse func()) {
	u.undo = append(u.undo, inverse)
}

// adjust must be called with s.mu held.
func (s *memStore) adjust(id kernel.UUID, stockDelta, orderCountDelta int) {
	p, ok := s.products[id]
	if !ok {
		return
	}
	c, err := product.RestoreProduct(p.ID(), p.CompanyID(), p.Name(), p.UnitPrice(), p.Unit(),
		p.StockQuantity()+stockDelta, p.IsActive(), p.IsAvailable(), p.OrderCount()+orderCountDelta)
	if err != nil {
		panic(err)
	}
	s.products[id] = c
}

func (u *fakeUoW) ProductRepository() ports.ProductRepository   { return productRepo{u} }
func (u *fakeUoW) OrderRepository() ports.OrderRepository       { return orderRepo{u} }
func (u *fakeUoW) DeliveryRepository() ports.DeliveryRepository { return deliveryRepo{u} }
func (u *fakeUoW) AccountDirectory() ports.AccountDirectory     { return accountDir{u} }
func (u *fakeUoW) WorkerDirectory() ports.WorkerDirectory       { return workerDir{u} }
func (u *fakeUoW) NumberSequence() ports.NumberSequence         { return sequence{u} }
func (u *fakeUoW) StockReleaseQueue() ports.StockReleaseQueue   { return releaseQueue{u} }

type (
	productRepo  struct{ *fakeUoW }
	orderRepo    struct{ *fakeUoW }
	deliveryRepo struct{ *fakeUoW }
	accountDir   struct{ *fakeUoW }
	workerDir    struct{ *fakeUoW }
	sequence     struct{ *fakeUoW }
	releaseQueue struct{ *fakeUoW }
)

func (r productRepo) Add(_ context.Context, p *product.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id := p.ID()
	prev, existed := r.s.products[id]
	r.s.products[id] = cloneProduct(p)
	r.record(func() {
		if existed {
			r.s.products[id] = prev
			return
		}
		delete(r.s.products, id)
	})
	return nil
}

func (r productRepo) Get(_ context.Context, id kernel.UUID) (*product.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("product", id.String())
	}
	return cloneProduct(p), nil
}

func (r productRepo) Reserve(_ context.Context, id kernel.UUID, quantity int) (*product.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("product", id.String())
	}
	c := cloneProduct(p)
	if err := c.Reserve(quantity); err != nil {
		return nil, err
	}
	r.s.products[id] = c
	r.record(func() { r.s.adjust(id, quantity, -1) })
	return cloneProduct(c), nil
}

func (r productRepo) Release(_ context.Context, id kernel.UUID, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failRelease[id]; err != nil {
		return err
	}
	p, ok := r.s.products[id]
	if !ok {
		return errs.NewObjectNotFoundError("product", id.String())
	}
	c := cloneProduct(p)
	if err := c.Release(quantity); err != nil {
		return err
	}
	r.s.products[id] = c
	r.record(func() { r.s.adjust(id, -quantity, 0) })
	return nil
}

func (r orderRepo) Add(_ context.Context, o *order.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id := o.ID()
	r.s.orders[id] = o.State()
	r.record(func() { delete(r.s.orders, id) })
	return nil
}

func (r orderRepo) Update(_ context.Context, o *order.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id := o.ID()
	prev, ok := r.s.orders[id]
	if !ok {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	if err := r.s.failOrderUpdate; err != nil {
		return err
	}
	r.s.orders[id] = o.State()
	r.record(func() { r.s.orders[id] = prev })
	return nil
}

func (r orderRepo) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	state, ok := r.s.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return order.RestoreOrder(state)
}

func (r orderRepo) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.Get(ctx, id)
}

func (r deliveryRepo) Add(_ context.Context, d *delivery.Delivery) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.deliveries {
		if existing.OrderID.IsEqual(d.OrderID()) {
			return errs.NewConflictError("delivery for order", d.OrderID().String())
		}
	}
	id := d.ID()
	r.s.deliveries[id] = d.State()
	r.record(func() { delete(r.s.deliveries, id) })
	return nil
}

func (r deliveryRepo) Update(_ context.Context, d *delivery.Delivery) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	id := d.ID()
	prev, existed := r.s.deliveries[id]
	r.s.deliveries[id] = d.State()
	r.record(func() {
		if existed {
			r.s.deliveries[id] = prev
			return
		}
		delete(r.s.deliveries, id)
	})
	return nil
}

func (r deliveryRepo) Get(_ context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	state, ok := r.s.deliveries[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("delivery", id.String())
	}
	return delivery.RestoreDelivery(state)
}

func (r deliveryRepo) GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	return r.Get(ctx, id)
}

func (r deliveryRepo) GetByOrderForUpdate(_ context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.deliveries {
		if existing.OrderID.IsEqual(orderID) {
			return delivery.RestoreDelivery(existing)
		}
	}
	return nil, errs.NewObjectNotFoundError("delivery for order", orderID.String())
}

func (r deliveryRepo) ExistsForOrder(_ context.Context, orderID kernel.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.deliveries {
		if existing.OrderID.IsEqual(orderID) {
			return true, nil
		}
	}
	return false, nil
}

func (r deliveryRepo) CountActiveByWorker(context.Context) (map[kernel.UUID]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	load := map[kernel.UUID]int{}
	for _, existing := range r.s.deliveries {
		if existing.Status.IsActive() {
			load[existing.WorkerID]++
		}
	}
	return load, nil
}

func (d accountDir) Get(_ context.Context, id kernel.UUID) (*account.Account, error) {
	a, ok := d.s.accounts[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("account", id.String())
	}
	return a, nil
}

func (d workerDir) Get(_ context.Context, id kernel.UUID) (*worker.DeliveryWorker, error) {
	w, ok := d.s.workers[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("delivery worker", id.String())
	}
	return w, nil
}

func (d workerDir) ListActive(context.Context) ([]*worker.DeliveryWorker, error) {
	out := make([]*worker.DeliveryWorker, 0, len(d.s.workers))
	for _, w := range d.s.workers {
		if w.IsActive() {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func (q sequence) NextOrderNumber(context.Context) (order.Number, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	q.s.orderSeq++
	return order.NewNumber(q.s.orderSeq)
}

func (q sequence) NextDeliveryNumber(context.Context) (delivery.Number, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	q.s.deliverySeq++
	return delivery.NewNumber(q.s.deliverySeq)
}

func (q releaseQueue) Enqueue(_ context.Context, release ports.PendingStockRelease) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	for _, existing := range q.s.releases {
		if existing.OrderID.IsEqual(release.OrderID) && existing.LineNo == release.LineNo {
			return nil
		}
	}
	q.s.releaseSeq++
	release.ID = q.s.releaseSeq
	q.s.releases[release.ID] = release
	q.record(func() { delete(q.s.releases, release.ID) })
	return nil
}

func (q releaseQueue) ClaimDue(_ context.Context, now time.Time, limit int) ([]ports.PendingStockRelease, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	due := make([]ports.PendingStockRelease, 0)
	for _, r := range q.s.releases {
		if !r.NextAttemptAt.After(now) {
			due = append(due, r)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ID < due[j].ID })
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (q releaseQueue) Complete(_ context.Context, id int64) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	prev, ok := q.s.releases[id]
	delete(q.s.releases, id)
	if ok {
		q.record(func() { q.s.releases[id] = prev })
	}
	return nil
}

func (q releaseQueue) Reschedule(_ context.Context, id int64, attempts int, next time.Time, lastErr string) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	r := q.s.releases[id]
	prev := r
	q.record(func() { q.s.releases[id] = prev })
	r.Attempts = attempts
	r.NextAttemptAt = next
	r.LastError = lastErr
	q.s.releases[id] = r
	return nil
}

type (
	fakeOrderUoWFactory   struct{ s *memStore }
	fakeUoWFactory        struct{ s *memStore }
	fakeReleaseUoWFactory struct{ s *memStore }
)

func (f fakeOrderUoWFactory) Create() commands.OrderUoW          { return &fakeUoW{s: f.s} }
func (f fakeUoWFactory) Create() commands.UoW                    { return &fakeUoW{s: f.s} }
func (f fakeReleaseUoWFactory) Create() commands.StockReleaseUoW { return &fakeUoW{s: f.s} }

func mustActor(t *testing.T, id kernel.UUID, role actor.Role) actor.Actor {
	t.Helper()
	a, err := actor.New(id, role, true)
	require.NoError(t, err)
	return a
}
