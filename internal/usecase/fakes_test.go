package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/minhle2104/shopcore-api/internal/entity"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fakeProductRepo struct {
	products map[int64]*domain.Product

	// reserveDenied simulates losing the conditional decrement to a
	// concurrent checkout: Reserve returns false without touching stock.
	reserveDenied map[int64]bool
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[int64]*domain.Product{}, reserveDenied: map[int64]bool{}}
}

func (f *fakeProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) Reserve(_ context.Context, id int64, qty int) (bool, error) {
	p, ok := f.products[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if !p.TrackStock {
		return true, nil
	}
	if f.reserveDenied[id] || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	return true, nil
}

func (f *fakeProductRepo) Release(_ context.Context, id int64, qty int) error {
	if p, ok := f.products[id]; ok && p.TrackStock {
		p.Stock += qty
	}
	return nil
}

type fakeCartRepo struct {
	products *fakeProductRepo
	carts    map[int64]*domain.Cart // by user id
	nextID   int64
}

func newFakeCartRepo(products *fakeProductRepo) *fakeCartRepo {
	return &fakeCartRepo{products: products, carts: map[int64]*domain.Cart{}, nextID: 100}
}

func (f *fakeCartRepo) seed(userID int64, lines ...domain.CartItem) *domain.Cart {
	cart := &domain.Cart{ID: userID, UserID: userID}
	for _, l := range lines {
		f.nextID++
		l.ID = f.nextID
		l.CartID = cart.ID
		cart.Items = append(cart.Items, l)
	}
	f.carts[userID] = cart
	return cart
}

func (f *fakeCartRepo) hydrate(cart *domain.Cart) *domain.Cart {
	cp := *cart
	cp.Items = make([]domain.CartItem, len(cart.Items))
	copy(cp.Items, cart.Items)
	for i := range cp.Items {
		if p, ok := f.products.products[cp.Items[i].ProductID]; ok {
			pc := *p
			cp.Items[i].Product = &pc
		}
	}
	return &cp
}

func (f *fakeCartRepo) GetOrCreateByUser(_ context.Context, userID int64) (*domain.Cart, error) {
	cart, ok := f.carts[userID]
	if !ok {
		cart = &domain.Cart{ID: userID, UserID: userID}
		f.carts[userID] = cart
	}
	return f.hydrate(cart), nil
}

func (f *fakeCartRepo) GetByUser(_ context.Context, userID int64) (*domain.Cart, error) {
	cart, ok := f.carts[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return f.hydrate(cart), nil
}

func (f *fakeCartRepo) GetItem(_ context.Context, cartID, itemID int64) (*domain.CartItem, error) {
	for _, cart := range f.carts {
		if cart.ID != cartID {
			continue
		}
		for _, it := range cart.Items {
			if it.ID == itemID {
				cp := it
				return &cp, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCartRepo) SetItemQuantity(_ context.Context, cartID, productID int64, qty int) error {
	for _, cart := range f.carts {
		if cart.ID != cartID {
			continue
		}
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				cart.Items[i].Quantity = qty
				return nil
			}
		}
		f.nextID++
		cart.Items = append(cart.Items, domain.CartItem{
			ID: f.nextID, CartID: cartID, ProductID: productID, Quantity: qty,
		})
		return nil
	}
	return domain.ErrNotFound
}

func (f *fakeCartRepo) UpdateItemQuantity(_ context.Context, itemID int64, qty int) error {
	for _, cart := range f.carts {
		for i := range cart.Items {
			if cart.Items[i].ID == itemID {
				cart.Items[i].Quantity = qty
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

func (f *fakeCartRepo) DeleteItem(_ context.Context, itemID int64) error {
	for _, cart := range f.carts {
		for i := range cart.Items {
			if cart.Items[i].ID == itemID {
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

func (f *fakeCartRepo) ClearItems(_ context.Context, cartID int64) error {
	for _, cart := range f.carts {
		if cart.ID == cartID {
			cart.Items = nil
			return nil
		}
	}
	return nil
}

type fakeOrderRepo struct {
	orders    map[string]*domain.Order
	createdAt []string // insertion order for ListByUser
	createErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*domain.Order{}}
}

func copyOrder(o *domain.Order) *domain.Order {
	cp := *o
	cp.Items = make([]domain.OrderItem, len(o.Items))
	copy(cp.Items, o.Items)
	return &cp
}

func (f *fakeOrderRepo) Create(_ context.Context, o *domain.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.orders[o.ID] = copyOrder(o)
	f.createdAt = append(f.createdAt, o.ID)
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyOrder(o), nil
}

func (f *fakeOrderRepo) GetByIDAndUser(_ context.Context, id string, userID int64) (*domain.Order, error) {
	o, ok := f.orders[id]
	if !ok || o.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return copyOrder(o), nil
}

func (f *fakeOrderRepo) ListByUser(_ context.Context, userID int64, page, limit int) ([]domain.Order, int64, error) {
	var all []domain.Order
	for _, id := range f.createdAt {
		if o, ok := f.orders[id]; ok && o.UserID == userID {
			all = append(all, *copyOrder(o))
		}
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (f *fakeOrderRepo) TransitionStatus(_ context.Context, id string, from []domain.Status, to domain.Status) (bool, error) {
	o, ok := f.orders[id]
	if !ok {
		return false, nil
	}
	legal := false
	for _, s := range from {
		if o.Status == s {
			legal = true
			break
		}
	}
	if !legal {
		return false, nil
	}
	o.Status = to
	now := time.Now().UTC()
	switch to {
	case domain.StatusConfirmed:
		if o.ConfirmedAt == nil {
			o.ConfirmedAt = &now
		}
	case domain.StatusShipped:
		if o.ShippedAt == nil {
			o.ShippedAt = &now
		}
	case domain.StatusDelivered:
		if o.DeliveredAt == nil {
			o.DeliveredAt = &now
		}
	case domain.StatusCancelled:
		if o.CancelledAt == nil {
			o.CancelledAt = &now
		}
	}
	return true, nil
}

// fakeUOW mimics transactional behavior by snapshotting the fakes before fn
// and restoring them when fn fails.
type fakeUOW struct {
	products *fakeProductRepo
	carts    *fakeCartRepo
	orders   *fakeOrderRepo
}

type uowSnapshot struct {
	products map[int64]domain.Product
	carts    map[int64]domain.Cart
	orders   map[string]domain.Order
	order    []string
}

func (u *fakeUOW) snapshot() uowSnapshot {
	s := uowSnapshot{
		products: map[int64]domain.Product{},
		carts:    map[int64]domain.Cart{},
		orders:   map[string]domain.Order{},
		order:    append([]string(nil), u.orders.createdAt...),
	}
	for id, p := range u.products.products {
		s.products[id] = *p
	}
	for id, c := range u.carts.carts {
		cp := *c
		cp.Items = append([]domain.CartItem(nil), c.Items...)
		s.carts[id] = cp
	}
	for id, o := range u.orders.orders {
		s.orders[id] = *copyOrder(o)
	}
	return s
}

func (u *fakeUOW) restore(s uowSnapshot) {
	u.products.products = map[int64]*domain.Product{}
	for id := range s.products {
		p := s.products[id]
		u.products.products[id] = &p
	}
	u.carts.carts = map[int64]*domain.Cart{}
	for id := range s.carts {
		c := s.carts[id]
		u.carts.carts[id] = &c
	}
	u.orders.orders = map[string]*domain.Order{}
	for id := range s.orders {
		o := s.orders[id]
		u.orders.orders[id] = &o
	}
	u.orders.createdAt = s.order
}

func (u *fakeUOW) Do(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	snap := u.snapshot()
	err := fn(ctx, Repos{Products: u.products, Carts: u.carts, Orders: u.orders})
	if err != nil {
		u.restore(snap)
	}
	return err
}

type enqueued struct {
	Type    string
	Payload any
}

type fakeOutbox struct {
	events     []enqueued
	jobs       []enqueued
	failEvents bool
}

func (f *fakeOutbox) EnqueueEvent(_ context.Context, eventType string, payload any) error {
	if f.failEvents {
		return errors.New("outbox unavailable")
	}
	f.events = append(f.events, enqueued{Type: eventType, Payload: payload})
	return nil
}

func (f *fakeOutbox) EnqueueJob(_ context.Context, jobType string, payload any) error {
	f.jobs = append(f.jobs, enqueued{Type: jobType, Payload: payload})
	return nil
}

type fakeAddressRepo struct {
	owned    map[int64]int64  // address id -> owner
	defaults map[string]int64 // "userID/type" -> address id
}

func newFakeAddressRepo() *fakeAddressRepo {
	return &fakeAddressRepo{owned: map[int64]int64{}, defaults: map[string]int64{}}
}

func (f *fakeAddressRepo) Exists(_ context.Context, id, userID int64) (bool, error) {
	owner, ok := f.owned[id]
	return ok && owner == userID, nil
}

func (f *fakeAddressRepo) DefaultID(_ context.Context, userID int64, addrType string) (*int64, error) {
	if id, ok := f.defaults[defaultKey(userID, addrType)]; ok {
		return &id, nil
	}
	return nil, nil
}

func defaultKey(userID int64, addrType string) string {
	return fmt.Sprintf("%d/%s", userID, addrType)
}

type fakeIdemStore struct {
	locked     map[string]bool
	remembered map[string]string
}

func newFakeIdemStore() *fakeIdemStore {
	return &fakeIdemStore{locked: map[string]bool{}, remembered: map[string]string{}}
}

func (f *fakeIdemStore) TryLock(_ context.Context, scope, key string) (bool, error) {
	k := scope + "|" + key
	if f.locked[k] {
		return false, nil
	}
	f.locked[k] = true
	return true, nil
}

func (f *fakeIdemStore) Remember(_ context.Context, scope, key, value string) error {
	f.remembered[scope+"|"+key] = value
	return nil
}

func (f *fakeIdemStore) Recall(_ context.Context, scope, key string) (string, bool, error) {
	v, ok := f.remembered[scope+"|"+key]
	return v, ok, nil
}

type fakeStatusCache struct {
	statuses map[string]string
}

func newFakeStatusCache() *fakeStatusCache {
	return &fakeStatusCache{statuses: map[string]string{}}
}

func (f *fakeStatusCache) SetStatus(_ context.Context, orderID, status string) error {
	f.statuses[orderID] = status
	return nil
}

func (f *fakeStatusCache) GetStatus(_ context.Context, orderID string) (string, bool, error) {
	s, ok := f.statuses[orderID]
	return s, ok, nil
}

// fixture wires the fakes the way run.go wires the real adapters.
type fixture struct {
	products  *fakeProductRepo
	carts     *fakeCartRepo
	orders    *fakeOrderRepo
	addresses *fakeAddressRepo
	outbox    *fakeOutbox
	idem      *fakeIdemStore
	cache     *fakeStatusCache
	uow       *fakeUOW
}

func newFixture() *fixture {
	products := newFakeProductRepo()
	carts := newFakeCartRepo(products)
	orders := newFakeOrderRepo()
	return &fixture{
		products:  products,
		carts:     carts,
		orders:    orders,
		addresses: newFakeAddressRepo(),
		outbox:    &fakeOutbox{},
		idem:      newFakeIdemStore(),
		cache:     newFakeStatusCache(),
		uow:       &fakeUOW{products: products, carts: carts, orders: orders},
	}
}

func (f *fixture) addProduct(id int64, name, price string, stock int, tracked bool) {
	f.products.products[id] = &domain.Product{
		ID: id, Name: name, Price: dec(price), Stock: stock, TrackStock: tracked,
	}
}

func (f *fixture) checkout(taxRate string) *Checkout {
	return NewCheckout(f.uow, f.orders, f.addresses, f.outbox, f.idem, dec(taxRate), "ORD")
}
