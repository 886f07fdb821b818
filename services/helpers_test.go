package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yashrajoria/pos-terminal/models"
	"github.com/yashrajoria/pos-terminal/services"
	"go.uber.org/zap"
)

// --- Fake collaborators ---

type fakeNotifier struct {
	mu    sync.Mutex
	notes []models.Notification
}

func (n *fakeNotifier) Notify(_ context.Context, note models.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note)
}

func (n *fakeNotifier) all() []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.Notification(nil), n.notes...)
}

func (n *fakeNotifier) last() models.Notification {
	notes := n.all()
	if len(notes) == 0 {
		return models.Notification{}
	}
	return notes[len(notes)-1]
}

func (n *fakeNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.OrderEvent
}

func (p *fakePublisher) PublishOrderEvent(_ context.Context, evt models.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *fakePublisher) types() []models.OrderEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.OrderEventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Event
	}
	return out
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeTask struct {
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

type fakeScheduler struct {
	mu    sync.Mutex
	tasks []*fakeTask
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) services.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTask{delay: d, f: f}
	s.tasks = append(s.tasks, t)
	return stopper{s: s, t: t}
}

type stopper struct {
	s *fakeScheduler
	t *fakeTask
}

func (st stopper) Stop() bool {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if st.t.stopped || st.t.fired {
		return false
	}
	st.t.stopped = true
	return true
}

// fireAll runs every task that is neither stopped nor fired. Callbacks run
// outside the scheduler lock because they may schedule new tasks.
func (s *fakeScheduler) fireAll() {
	s.mu.Lock()
	var due []*fakeTask
	for _, t := range s.tasks {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()
	for _, t := range due {
		t.f()
	}
}

func (s *fakeScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// --- Helpers ---

type harness struct {
	svc       *services.POSService
	notifier  *fakeNotifier
	publisher *fakePublisher
	clock     *fakeClock
	scheduler *fakeScheduler
}

var testStart = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newHarness(t *testing.T, products ...models.Product) *harness {
	t.Helper()
	if len(products) == 0 {
		products = defaultProducts()
	}
	h := &harness{
		notifier:  &fakeNotifier{},
		publisher: &fakePublisher{},
		clock:     &fakeClock{now: testStart},
		scheduler: &fakeScheduler{},
	}
	svc, err := services.NewPOSService(products, defaultCategories(), services.Options{
		Notifier:     h.notifier,
		Events:       h.publisher,
		Clock:        h.clock,
		Scheduler:    h.scheduler,
		Logger:       zap.NewNop(),
		Location:     time.UTC,
		KitchenDelay: 3 * time.Second,
		TableNumber:  func() int { return 7 },
	})
	require.NoError(t, err)
	h.svc = svc
	return h
}

func (h *harness) open(t *testing.T) {
	t.Helper()
	require.NoError(t, h.svc.OpenDay(context.Background()))
	h.notifier.reset()
}

func (h *harness) quantity(t *testing.T, id string) int {
	t.Helper()
	p, ok := h.svc.Product(id)
	require.True(t, ok, "product %s should exist", id)
	return p.Quantity
}

func product(id, name, price, category string, qty int) models.Product {
	return models.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: category,
		Quantity: qty,
	}
}

func defaultProducts() []models.Product {
	return []models.Product{
		product("burger", "Cheese Burger", "5.99", "food", 50),
		product("cola", "Cola", "1.99", "drinks", 100),
		product("cake", "Chocolate Cake", "4.99", "desserts", 3),
		product("fries", "French Fries", "2.99", "snacks", 0),
	}
}

func defaultCategories() []models.Category {
	return []models.Category{
		{ID: "food", Name: "Food"},
		{ID: "drinks", Name: "Drinks"},
		{ID: "desserts", Name: "Desserts"},
		{ID: "snacks", Name: "Snacks"},
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
