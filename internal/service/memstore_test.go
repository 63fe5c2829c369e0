package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"toolrental-backend/internal/domain"
	"toolrental-backend/internal/repository"
)

// memStore is an in-memory repository.Store. Transactions are serialized by
// one mutex and work on a copy of the data that is only kept on success, which
// gives the same all-or-nothing and row-locking behavior the lifecycle code
// relies on from Postgres.
type memStore struct {
	mu   sync.Mutex
	data *memData

	historyErr error // returned by every History.Create when set
	txErr      error // returned by WithinTx before fn runs when set
	txCount    int
}

type memData struct {
	seq      int32
	users    map[int32]domain.User
	tools    map[int32]domain.Tool
	orders   map[int32]domain.Order
	rentals  map[int32]domain.Rental
	payments []domain.Payment
	history  []domain.HistoryEntry
	support  map[int32]domain.SupportRequest
}

func newMemStore() *memStore {
	return &memStore{data: &memData{
		users:   map[int32]domain.User{},
		tools:   map[int32]domain.Tool{},
		orders:  map[int32]domain.Order{},
		rentals: map[int32]domain.Rental{},
		support: map[int32]domain.SupportRequest{},
	}}
}

func (d *memData) clone() *memData {
	c := &memData{
		seq:      d.seq,
		users:    make(map[int32]domain.User, len(d.users)),
		tools:    make(map[int32]domain.Tool, len(d.tools)),
		orders:   make(map[int32]domain.Order, len(d.orders)),
		rentals:  make(map[int32]domain.Rental, len(d.rentals)),
		payments: append([]domain.Payment(nil), d.payments...),
		history:  append([]domain.HistoryEntry(nil), d.history...),
		support:  make(map[int32]domain.SupportRequest, len(d.support)),
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.tools {
		c.tools[k] = v
	}
	for k, v := range d.orders {
		c.orders[k] = v
	}
	for k, v := range d.rentals {
		c.rentals[k] = v
	}
	for k, v := range d.support {
		c.support[k] = v
	}
	return c
}

func (d *memData) nextID() int32 {
	d.seq++
	return d.seq
}

// view binds repositories either to the live data (taking the lock per call)
// or to a transaction's working copy.
type view struct {
	store *memStore
	tx    *memData
}

func (v view) acquire() (*memData, func()) {
	if v.tx != nil {
		return v.tx, func() {}
	}
	v.store.mu.Lock()
	return v.store.data, v.store.mu.Unlock
}

func (s *memStore) reposFor(v view) *repository.Repos {
	return &repository.Repos{
		Users:    memUsers{v},
		Tools:    memTools{v},
		Orders:   memOrders{v},
		Rentals:  memRentals{v},
		Payments: memPayments{v},
		History:  memHistory{v},
		Support:  memSupport{v},
	}
}

func (s *memStore) Repos() *repository.Repos {
	return s.reposFor(view{store: s})
}

func (s *memStore) WithinTx(ctx context.Context, fn func(repos *repository.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txCount++

	if err := ctx.Err(); err != nil {
		return err
	}
	if s.txErr != nil {
		return s.txErr
	}
	work := s.data.clone()
	if err := fn(s.reposFor(view{store: s, tx: work})); err != nil {
		return err
	}
	s.data = work
	return nil
}

// Test helpers that read or seed the live data.

func (s *memStore) addUser(u domain.User) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.data.nextID()
	if u.Status == "" {
		u.Status = domain.UserStatusActive
	}
	if u.Role == "" {
		u.Role = domain.UserRoleUser
	}
	s.data.users[u.ID] = u
	return u
}

func (s *memStore) addTool(t domain.Tool) domain.Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.data.nextID()
	if t.Status == "" {
		t.Status = domain.ToolStatusActive
	}
	s.data.tools[t.ID] = t
	return t
}

func (s *memStore) order(id int32) domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.orders[id]
}

func (s *memStore) rental(id int32) domain.Rental {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.rentals[id]
}

func (s *memStore) setTool(t domain.Tool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.tools[t.ID] = t
}

func (s *memStore) counts() (orders, rentals, payments, history int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.orders), len(s.data.rentals), len(s.data.payments), len(s.data.history)
}

func (s *memStore) allPayments() []domain.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Payment(nil), s.data.payments...)
}

func (s *memStore) allHistory() []domain.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.HistoryEntry(nil), s.data.history...)
}

type memUsers struct{ v view }

func (r memUsers) Create(ctx context.Context, u *domain.User) error {
	d, done := r.v.acquire()
	defer done()
	for _, existing := range d.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return domain.NewError(domain.KindConflict, "user already exists")
		}
	}
	u.ID = d.nextID()
	u.CreatedAt = time.Now()
	d.users[u.ID] = *u
	return nil
}

func (r memUsers) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	d, done := r.v.acquire()
	defer done()
	u, ok := d.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r memUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	d, done := r.v.acquire()
	defer done()
	for _, u := range d.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type memTools struct{ v view }

func (r memTools) Create(ctx context.Context, t *domain.Tool) error {
	d, done := r.v.acquire()
	defer done()
	t.ID = d.nextID()
	t.CreatedAt = time.Now()
	d.tools[t.ID] = *t
	return nil
}

func (r memTools) GetByID(ctx context.Context, id int32) (*domain.Tool, error) {
	d, done := r.v.acquire()
	defer done()
	t, ok := d.tools[id]
	if !ok {
		return nil, domain.ErrToolNotFound
	}
	return &t, nil
}

func (r memTools) GetForUpdate(ctx context.Context, id int32) (*domain.Tool, error) {
	return r.GetByID(ctx, id)
}

func (r memTools) Update(ctx context.Context, t *domain.Tool) error {
	d, done := r.v.acquire()
	defer done()
	if _, ok := d.tools[t.ID]; !ok {
		return domain.ErrToolNotFound
	}
	d.tools[t.ID] = *t
	return nil
}

func (r memTools) Deactivate(ctx context.Context, id int32) error {
	d, done := r.v.acquire()
	defer done()
	t, ok := d.tools[id]
	if !ok {
		return domain.ErrToolNotFound
	}
	t.Status = domain.ToolStatusInactive
	d.tools[id] = t
	return nil
}

func (r memTools) ListActive(ctx context.Context) ([]domain.Tool, error) {
	return r.list(func(t domain.Tool) bool { return t.IsActive() })
}

func (r memTools) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Tool, error) {
	return r.list(func(t domain.Tool) bool { return t.OwnerID == ownerID })
}

func (r memTools) list(keep func(domain.Tool) bool) ([]domain.Tool, error) {
	d, done := r.v.acquire()
	defer done()
	var out []domain.Tool
	for _, t := range d.tools {
		if keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memOrders struct{ v view }

func (r memOrders) Create(ctx context.Context, o *domain.Order) error {
	d, done := r.v.acquire()
	defer done()
	o.ID = d.nextID()
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	d.orders[o.ID] = *o
	return nil
}

func (r memOrders) GetByID(ctx context.Context, id int32) (*domain.Order, error) {
	d, done := r.v.acquire()
	defer done()
	o, ok := d.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &o, nil
}

func (r memOrders) ListByUser(ctx context.Context, userID int32) ([]domain.Order, error) {
	d, done := r.v.acquire()
	defer done()
	var out []domain.Order
	for _, o := range d.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memOrders) UpdateStatus(ctx context.Context, id int32, from, to domain.LifecycleStatus) error {
	d, done := r.v.acquire()
	defer done()
	o, ok := d.orders[id]
	if !ok || o.Status != from {
		return domain.NewError(domain.KindInvalidTransition, "order %d is no longer %s", id, from)
	}
	o.Status = to
	d.orders[id] = o
	return nil
}

func (r memOrders) UpdateEndDate(ctx context.Context, id int32, endDate time.Time) error {
	d, done := r.v.acquire()
	defer done()
	o, ok := d.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.EndDate = endDate
	d.orders[id] = o
	return nil
}

type memRentals struct{ v view }

func (r memRentals) Create(ctx context.Context, rt *domain.Rental) error {
	d, done := r.v.acquire()
	defer done()
	for _, existing := range d.rentals {
		if existing.OrderID == rt.OrderID {
			return domain.NewError(domain.KindConflict, "order already has a rental")
		}
	}
	rt.ID = d.nextID()
	rt.CreatedAt = time.Now()
	rt.UpdatedAt = rt.CreatedAt
	d.rentals[rt.ID] = *rt
	return nil
}

func (r memRentals) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	d, done := r.v.acquire()
	defer done()
	rt, ok := d.rentals[id]
	if !ok {
		return nil, domain.ErrRentalNotFound
	}
	return &rt, nil
}

func (r memRentals) list(keep func(domain.Rental) bool) []domain.Rental {
	d, done := r.v.acquire()
	defer done()
	var out []domain.Rental
	for _, rt := range d.rentals {
		if keep(rt) {
			out = append(out, rt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r memRentals) ListByRenter(ctx context.Context, renterID int32) ([]domain.Rental, error) {
	return r.list(func(rt domain.Rental) bool { return rt.RenterID == renterID }), nil
}

func (r memRentals) ListByTool(ctx context.Context, toolID int32) ([]domain.Rental, error) {
	return r.list(func(rt domain.Rental) bool { return rt.ToolID == toolID }), nil
}

func (r memRentals) UpdateStatus(ctx context.Context, id int32, from, to domain.LifecycleStatus) error {
	d, done := r.v.acquire()
	defer done()
	rt, ok := d.rentals[id]
	if !ok || rt.Status != from {
		return domain.NewError(domain.KindInvalidTransition, "rental %d is no longer %s", id, from)
	}
	rt.Status = to
	d.rentals[id] = rt
	return nil
}

func (r memRentals) UpdateEndDateAndTotal(ctx context.Context, id int32, endDate time.Time, total int64) error {
	d, done := r.v.acquire()
	defer done()
	rt, ok := d.rentals[id]
	if !ok {
		return domain.ErrRentalNotFound
	}
	rt.EndDate = endDate
	rt.TotalPriceCents = total
	d.rentals[id] = rt
	return nil
}

func (r memRentals) CountOpenByTool(ctx context.Context, toolID int32) (int, error) {
	return len(r.list(func(rt domain.Rental) bool {
		return rt.ToolID == toolID && (rt.Status == domain.StatusPending || rt.Status == domain.StatusActive)
	})), nil
}

func (r memRentals) lockPair(match func(domain.Rental) bool, nf error) (*domain.RentalPair, error) {
	d, done := r.v.acquire()
	defer done()
	for _, rt := range d.rentals {
		if match(rt) {
			o := d.orders[rt.OrderID]
			return &domain.RentalPair{Order: &o, Rental: &rt}, nil
		}
	}
	return nil, nf
}

func (r memRentals) LockPairByRental(ctx context.Context, rentalID int32) (*domain.RentalPair, error) {
	return r.lockPair(func(rt domain.Rental) bool { return rt.ID == rentalID }, domain.ErrRentalNotFound)
}

func (r memRentals) LockPairByOrder(ctx context.Context, orderID int32) (*domain.RentalPair, error) {
	return r.lockPair(func(rt domain.Rental) bool { return rt.OrderID == orderID }, domain.ErrOrderNotFound)
}

func (r memRentals) ListUnbilled(ctx context.Context, limit int) ([]domain.Rental, error) {
	d, done := r.v.acquire()
	paid := map[int32]bool{}
	for _, p := range d.payments {
		if p.Status == domain.PaymentStatusCompleted {
			paid[p.RentalID] = true
		}
	}
	done()
	out := r.list(func(rt domain.Rental) bool { return rt.Status == domain.StatusCompleted && !paid[rt.ID] })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memRentals) ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]domain.Rental, error) {
	out := r.list(func(rt domain.Rental) bool { return rt.Status == domain.StatusPending && rt.StartDate.Before(cutoff) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memPayments struct{ v view }

func (r memPayments) Create(ctx context.Context, p *domain.Payment) error {
	d, done := r.v.acquire()
	defer done()
	if p.Status == domain.PaymentStatusCompleted {
		for _, existing := range d.payments {
			if existing.RentalID == p.RentalID && existing.Status == domain.PaymentStatusCompleted {
				return domain.NewError(domain.KindConflict, "rental already has a completed payment")
			}
		}
	}
	p.ID = d.nextID()
	p.CreatedAt = time.Now()
	d.payments = append(d.payments, *p)
	return nil
}

func (r memPayments) FindCompletedByRental(ctx context.Context, rentalID int32) (*domain.Payment, error) {
	d, done := r.v.acquire()
	defer done()
	for _, p := range d.payments {
		if p.RentalID == rentalID && p.Status == domain.PaymentStatusCompleted {
			return &p, nil
		}
	}
	return nil, nil
}

func (r memPayments) ListByRental(ctx context.Context, rentalID int32) ([]domain.Payment, error) {
	d, done := r.v.acquire()
	defer done()
	var out []domain.Payment
	for _, p := range d.payments {
		if p.RentalID == rentalID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memPayments) ListByUser(ctx context.Context, userID int32) ([]domain.Payment, error) {
	d, done := r.v.acquire()
	defer done()
	var out []domain.Payment
	for _, p := range d.payments {
		if d.rentals[p.RentalID].RenterID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

type memHistory struct{ v view }

func (r memHistory) Create(ctx context.Context, h *domain.HistoryEntry) error {
	if r.v.store.historyErr != nil {
		return r.v.store.historyErr
	}
	d, done := r.v.acquire()
	defer done()
	h.ID = d.nextID()
	h.CreatedAt = time.Now()
	d.history = append(d.history, *h)
	return nil
}

func (r memHistory) ListByUser(ctx context.Context, userID int32) ([]domain.HistoryEntry, error) {
	d, done := r.v.acquire()
	defer done()
	var out []domain.HistoryEntry
	for _, h := range d.history {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r memHistory) ListByOrder(ctx context.Context, orderID int32) ([]domain.HistoryEntry, error) {
	d, done := r.v.acquire()
	defer done()
	var out []domain.HistoryEntry
	for _, h := range d.history {
		if h.OrderID == orderID {
			out = append(out, h)
		}
	}
	return out, nil
}

type memSupport struct{ v view }

func (r memSupport) Create(ctx context.Context, s *domain.SupportRequest) error {
	d, done := r.v.acquire()
	defer done()
	s.ID = d.nextID()
	s.CreatedAt = time.Now()
	d.support[s.ID] = *s
	return nil
}

func (r memSupport) List(ctx context.Context) ([]domain.SupportRequest, error) {
	d, done := r.v.acquire()
	defer done()
	var out []domain.SupportRequest
	for _, s := range d.support {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memSupport) UpdateStatus(ctx context.Context, id int32, status domain.SupportStatus) (*domain.SupportRequest, error) {
	d, done := r.v.acquire()
	defer done()
	s, ok := d.support[id]
	if !ok {
		return nil, domain.ErrSupportRequestNotFound
	}
	s.Status = status
	d.support[id] = s
	return &s, nil
}
