package services

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/yashrajoria/pos-terminal/models"
	"go.uber.org/zap"
)

// Notifier delivers user-facing notifications. Delivery is fire-and-forget;
// the service never depends on it for correctness.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification)
}

// OrderEventPublisher receives order lifecycle events after each transition.
type OrderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, evt models.OrderEvent) error
}

// Listener is called with a fresh snapshot after every mutation that changed
// state. Listeners run on the mutating goroutine after the state lock is
// released, so they may read the service, but they must not call its mutating
// methods.
type Listener func(models.Snapshot)

const (
	DefaultKitchenDelay      = 5 * time.Second
	DefaultPaymentDelay      = time.Second
	DefaultLowStockThreshold = 10
	DefaultCurrency          = "$"

	// ToastDuration is how long notifications stay on screen; errors linger.
	ToastDuration      = 4 * time.Second
	ErrorToastDuration = 6 * time.Second

	maxTableNumber = 20
)

// Options configures a POSService. Zero values fall back to defaults.
type Options struct {
	Notifier          Notifier
	Events            OrderEventPublisher
	Clock             Clock
	Scheduler         Scheduler
	Logger            *zap.Logger
	Location          *time.Location
	KitchenDelay      time.Duration
	PaymentDelay      time.Duration
	LowStockThreshold int
	Currency          string
	// TableNumber assigns a table to a new order. Defaults to a uniform 1..20.
	TableNumber func() int
}

// POSService is the terminal state core: catalog, cart, order ledger and
// business day gate guarded as one unit.
type POSService struct {
	mu sync.Mutex

	products   []models.Product
	productIdx map[string]int
	categories []models.Category
	cart       []models.CartLine
	orders     []models.Order
	day        models.BusinessDay
	selection  models.Selection

	kitchenTasks    map[string]Task
	lastOrderMillis int64
	lastAutoClose   string
	lastAutoOpen    string

	payments      map[string]*models.PaymentSession
	activePayment string
	paymentTask   Task

	// Side effects collected under mu and delivered after it is released.
	pendingNotes  []models.Notification
	pendingEvents []models.OrderEvent
	dirty         bool

	// Deliveries run in ticket order. Tickets are taken under mu and waited
	// on after mu is released.
	dispatchMu   sync.Mutex
	dispatchCond *sync.Cond
	nextTicket   uint64
	serving      uint64

	listenMu   sync.RWMutex
	listeners  map[int]Listener
	nextListen int

	notifier     Notifier
	events       OrderEventPublisher
	clock        Clock
	scheduler    Scheduler
	logger       *zap.Logger
	loc          *time.Location
	kitchenDelay time.Duration
	paymentDelay time.Duration
	lowStock     int
	currency     string
	tableNumber  func() int
}

// NewPOSService builds a service seeded with the given catalog. The business
// day starts closed.
func NewPOSService(products []models.Product, categories []models.Category, opts Options) (*POSService, error) {
	s := &POSService{
		productIdx:   make(map[string]int),
		kitchenTasks: make(map[string]Task),
		payments:     make(map[string]*models.PaymentSession),
		listeners:    make(map[int]Listener),
		selection: models.Selection{
			Category:   models.AllCategories,
			ActiveView: models.ViewDashboard,
		},
		notifier:     opts.Notifier,
		events:       opts.Events,
		clock:        opts.Clock,
		scheduler:    opts.Scheduler,
		logger:       opts.Logger,
		loc:          opts.Location,
		kitchenDelay: opts.KitchenDelay,
		paymentDelay: opts.PaymentDelay,
		lowStock:     opts.LowStockThreshold,
		currency:     opts.Currency,
		tableNumber:  opts.TableNumber,
	}
	s.dispatchCond = sync.NewCond(&s.dispatchMu)
	if s.clock == nil {
		s.clock = SystemClock()
	}
	if s.scheduler == nil {
		s.scheduler = TimerScheduler()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.kitchenDelay <= 0 {
		s.kitchenDelay = DefaultKitchenDelay
	}
	if s.paymentDelay <= 0 {
		s.paymentDelay = DefaultPaymentDelay
	}
	if s.lowStock <= 0 {
		s.lowStock = DefaultLowStockThreshold
	}
	if s.currency == "" {
		s.currency = DefaultCurrency
	}
	if s.tableNumber == nil {
		s.tableNumber = func() int { return rand.IntN(maxTableNumber) + 1 }
	}

	if err := s.Seed(context.Background(), products, categories); err != nil {
		return nil, err
	}
	return s, nil
}

// Subscribe registers l and returns a function that removes it.
func (s *POSService) Subscribe(l Listener) func() {
	s.listenMu.Lock()
	id := s.nextListen
	s.nextListen++
	s.listeners[id] = l
	s.listenMu.Unlock()

	return func() {
		s.listenMu.Lock()
		delete(s.listeners, id)
		s.listenMu.Unlock()
	}
}

// mutate runs fn under the state lock and then delivers the notifications,
// order events and snapshot it produced, in mutation order. The state lock is
// never held while waiting for an earlier delivery to finish.
func (s *POSService) mutate(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	err := fn()
	var snap *models.Snapshot
	if s.dirty {
		sn := s.snapshotLocked()
		snap = &sn
	}
	notes, events := s.pendingNotes, s.pendingEvents
	s.pendingNotes, s.pendingEvents, s.dirty = nil, nil, false
	ticket := s.nextTicket
	s.nextTicket++
	s.mu.Unlock()

	s.dispatchMu.Lock()
	for s.serving != ticket {
		s.dispatchCond.Wait()
	}
	s.dispatchMu.Unlock()
	defer s.finishDelivery()

	s.deliver(ctx, notes, events, snap)
	return err
}

func (s *POSService) finishDelivery() {
	s.dispatchMu.Lock()
	s.serving++
	s.dispatchCond.Broadcast()
	s.dispatchMu.Unlock()
}

func (s *POSService) deliver(ctx context.Context, notes []models.Notification, events []models.OrderEvent, snap *models.Snapshot) {
	if s.notifier != nil {
		for _, n := range notes {
			s.notifier.Notify(ctx, n)
		}
	}
	if s.events != nil {
		for _, evt := range events {
			if err := s.events.PublishOrderEvent(ctx, evt); err != nil {
				s.logger.Error("Failed to publish order event",
					zap.String("event", string(evt.Event)),
					zap.String("order_id", evt.Order.ID),
					zap.Error(err),
				)
			}
		}
	}
	if snap == nil {
		return
	}
	s.listenMu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listenMu.RUnlock()
	for _, l := range listeners {
		l(*snap)
	}
}

func (s *POSService) notifyLocked(sev models.Severity, msg string) {
	d := ToastDuration
	if sev == models.SeverityError {
		d = ErrorToastDuration
	}
	s.pendingNotes = append(s.pendingNotes, models.Notification{
		Severity:   sev,
		Message:    msg,
		Duration:   d,
		DurationMS: d.Milliseconds(),
		Timestamp:  s.clock.Now(),
	})
}

// reject records a user-visible failure and returns err.
func (s *POSService) reject(err *ServiceError, fields ...zap.Field) error {
	s.notifyLocked(models.SeverityError, err.Message)
	s.logger.Warn(err.Message, append(fields, zap.String("reason", string(err.Reason)))...)
	return err
}

func (s *POSService) emitLocked(event models.OrderEventType, o models.Order) {
	s.pendingEvents = append(s.pendingEvents, models.OrderEvent{
		Event:     event,
		Order:     o.Clone(),
		Timestamp: s.clock.Now(),
	})
}

// Snapshot returns a consistent copy of the whole terminal state.
func (s *POSService) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *POSService) snapshotLocked() models.Snapshot {
	orders := make([]models.Order, len(s.orders))
	for i, o := range s.orders {
		orders[i] = o.Clone()
	}
	return models.Snapshot{
		Products:    append([]models.Product(nil), s.products...),
		Categories:  append([]models.Category(nil), s.categories...),
		Cart:        s.cartSummaryLocked(),
		Orders:      orders,
		Day:         s.dayLocked(),
		CurrentTime: s.clock.Now().In(s.loc),
		Selection:   s.selection,
		Currency:    s.currency,
	}
}

// CurrentTime is the clock reading in the terminal's time zone.
func (s *POSService) CurrentTime() time.Time {
	return s.clock.Now().In(s.loc)
}

// Currency is the display currency symbol.
func (s *POSService) Currency() string {
	return s.currency
}

// Selection returns the current UI selection state.
func (s *POSService) Selection() models.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// UpdateSelection applies the non-nil fields of u. Invalid values reject the
// whole update.
func (s *POSService) UpdateSelection(ctx context.Context, u models.SelectionUpdate) error {
	return s.mutate(ctx, func() error {
		if u.Payment != nil && *u.Payment != "" && !u.Payment.Valid() {
			return withMessage(ErrInvalidPayment, "Unsupported payment method %q", *u.Payment)
		}
		if u.ActiveView != nil && !u.ActiveView.Valid() {
			return withMessage(ErrInvalidSelection, "Unknown view %q", *u.ActiveView)
		}

		if u.Category != nil {
			s.selection.Category = *u.Category
			if s.selection.Category == "" {
				s.selection.Category = models.AllCategories
			}
		}
		if u.SearchTerm != nil {
			s.selection.SearchTerm = *u.SearchTerm
		}
		if u.Payment != nil {
			s.selection.Payment = *u.Payment
		}
		if u.ActiveView != nil {
			s.selection.ActiveView = *u.ActiveView
		}
		s.dirty = true
		return nil
	})
}

// SelectPayment sets the payment method used by PlaceOrder.
func (s *POSService) SelectPayment(ctx context.Context, m models.PaymentMethod) error {
	return s.UpdateSelection(ctx, models.SelectionUpdate{Payment: &m})
}
