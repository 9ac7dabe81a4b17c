package queries_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/queries"
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

var placedAt = time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)

type readStore struct {
	orders     map[kernel.UUID]*order.Order
	deliveries map[kernel.UUID]*delivery.Delivery
	workers    []*worker.DeliveryWorker
}

func newReadStore() *readStore {
	return &readStore{
		orders:     map[kernel.UUID]*order.Order{},
		deliveries: map[kernel.UUID]*delivery.Delivery{},
	}
}

type readersFactory struct{ s *readStore }

func (f readersFactory) Create() queries.Readers { return readers(f) }

type readers struct{ s *readStore }

func (r readers) OrderRepository() ports.OrderRepository       { return orderReader(r) }
func (r readers) DeliveryRepository() ports.DeliveryRepository { return deliveryReader(r) }
func (r readers) WorkerDirectory() ports.WorkerDirectory       { return workerReader(r) }

type (
	orderReader    readers
	deliveryReader readers
	workerReader   readers
)

func (r orderReader) Add(context.Context, *order.Order) error    { panic("read only") }
func (r orderReader) Update(context.Context, *order.Order) error { panic("read only") }

func (r orderReader) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if o, ok := r.s.orders[id]; ok {
		return o, nil
	}
	return nil, errs.NewObjectNotFoundError("order", id.String())
}

func (r orderReader) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.Get(ctx, id)
}

func (r deliveryReader) Add(context.Context, *delivery.Delivery) error    { panic("read only") }
func (r deliveryReader) Update(context.Context, *delivery.Delivery) error { panic("read only") }

func (r deliveryReader) Get(_ context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	if d, ok := r.s.deliveries[id]; ok {
		return d, nil
	}
	return nil, errs.NewObjectNotFoundError("delivery", id.String())
}

func (r deliveryReader) GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	return r.Get(ctx, id)
}

func (r deliveryReader) GetByOrderForUpdate(context.Context, kernel.UUID) (*delivery.Delivery, error) {
	panic("not used by queries")
}

func (r deliveryReader) ExistsForOrder(context.Context, kernel.UUID) (bool, error) {
	panic("not used by queries")
}

func (r deliveryReader) CountActiveByWorker(context.Context) (map[kernel.UUID]int, error) {
	load := map[kernel.UUID]int{}
	for _, d := range r.s.deliveries {
		if d.Status().IsActive() {
			load[d.WorkerID()]++
		}
	}
	return load, nil
}

func (r workerReader) Get(_ context.Context, id kernel.UUID) (*worker.DeliveryWorker, error) {
	for _, w := range r.s.workers {
		if w.ID().IsEqual(id) {
			return w, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("delivery worker", id.String())
}

func (r workerReader) ListActive(context.Context) ([]*worker.DeliveryWorker, error) {
	out := make([]*worker.DeliveryWorker, 0, len(r.s.workers))
	for _, w := range r.s.workers {
		if w.IsActive() {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *readStore) addWorker(t *testing.T, name string, online bool, areas ...string) *worker.DeliveryWorker {
	t.Helper()
	w, err := worker.RestoreDeliveryWorker(kernel.NewUUID(), name, "017", areas, true, online, worker.Vehicle{Type: "bicycle"})
	require.NoError(t, err)
	s.workers = append(s.workers, w)
	return w
}

// addShippedOrder stores an order with its active delivery carried by w.
func (s *readStore) addShippedOrder(t *testing.T, companyID, shopkeeperID kernel.UUID, w *worker.DeliveryWorker) (*order.Order, *delivery.Delivery) {
	t.Helper()
	p, err := product.NewProduct(kernel.NewUUID(), companyID, "Soybean Oil 5L", kernel.MustMoney("850"), "bottle", 40)
	require.NoError(t, err)
	item, err := order.ItemFromProduct(p, 2)
	require.NoError(t, err)

	number, err := order.NewNumber(order.FirstNumber + int64(len(s.orders)))
	require.NoError(t, err)
	o, err := order.NewOrder(order.Placement{
		ID:           kernel.NewUUID(),
		Number:       number,
		ShopkeeperID: shopkeeperID,
		CompanyID:    companyID,
		Items:        []order.Item{item},
		Destination:  order.Destination{Address: "House 7, Road 3", Area: "Mirpur 10"},
		CreatedBy:    shopkeeperID,
		At:           placedAt,
	})
	require.NoError(t, err)
	require.NoError(t, o.ChangeStatus(order.StatusChange{ActorID: companyID, Target: order.Approved, At: placedAt}))

	dn, err := delivery.NewNumber(int64(len(s.deliveries) + 1))
	require.NoError(t, err)
	d, err := delivery.NewFromOrder(delivery.Assignment{
		ID:             kernel.NewUUID(),
		Number:         dn,
		Order:          o,
		Worker:         w,
		PickupLocation: "Warehouse 2",
		At:             placedAt,
	})
	require.NoError(t, err)
	require.NoError(t, o.MarkShipped(companyID, w.ID(), placedAt))

	s.orders[o.ID()] = o
	s.deliveries[d.ID()] = d
	return o, d
}

func mustActor(t *testing.T, id kernel.UUID, role actor.Role) actor.Actor {
	t.Helper()
	a, err := actor.New(id, role, true)
	require.NoError(t, err)
	return a
}
