package test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/digistore/internal/domain/errors"
	"github.com/polkiloo/digistore/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
	mu    sync.Mutex
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, email, passwordHash string, role model.Role) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Login: login, Email: email, PasswordHash: passwordHash, Role: role, Level: 1}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, domainErrors.ErrNotFound
}

// SetRole updates stored role.
func (s *UserRepositoryStub) SetRole(ctx context.Context, id int64, role model.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	user.Role = role
	return nil
}

// ProductRepositoryStub keeps a catalogue in memory.
type ProductRepositoryStub struct {
	Products     map[int64]*model.Product
	GetErr       error
	IncrementErr error
	mu           sync.Mutex
}

// NewProductRepositoryStub seeds the catalogue with given products.
func NewProductRepositoryStub(products ...model.Product) *ProductRepositoryStub {
	s := &ProductRepositoryStub{Products: make(map[int64]*model.Product)}
	for i := range products {
		p := products[i]
		s.Products[p.ID] = &p
	}
	return s
}

// Create stores product with next identifier.
func (s *ProductRepositoryStub) Create(ctx context.Context, product model.Product) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product.ID = int64(len(s.Products) + 1)
	product.CreatedAt = time.Now()
	s.Products[product.ID] = &product
	clone := product
	return &clone, nil
}

// GetByID returns stored product or not found.
func (s *ProductRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	p, ok := s.Products[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

// List returns products ordered by id.
func (s *ProductRepositoryStub) List(ctx context.Context) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]model.Product, 0, len(s.Products))
	for _, p := range s.Products {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// IncrementDownloads bumps counter or returns configured error.
func (s *ProductRepositoryStub) IncrementDownloads(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.IncrementErr != nil {
		return s.IncrementErr
	}
	p, ok := s.Products[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	p.DownloadCount++
	return nil
}

// OrderRepositoryStub mimics the conditional update semantics of the real store.
type OrderRepositoryStub struct {
	Orders        map[int64]*model.Order
	CreateErr     error
	SetSessionErr error
	TransitionErr error
	PendingFn     func(context.Context, time.Duration, int) ([]model.Order, error)
	Transitions   int
	next          int64
	mu            sync.Mutex
}

// NewOrderRepositoryStub constructs stub repository with given orders.
func NewOrderRepositoryStub(orders ...model.Order) *OrderRepositoryStub {
	s := &OrderRepositoryStub{Orders: make(map[int64]*model.Order)}
	for i := range orders {
		o := orders[i]
		s.Orders[o.ID] = &o
		if o.ID > s.next {
			s.next = o.ID
		}
	}
	return s
}

// Create stores a new order.
func (s *OrderRepositoryStub) Create(ctx context.Context, order model.NewOrder) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	s.next++
	now := time.Now()
	o := &model.Order{
		ID:        s.next,
		UserID:    order.UserID,
		ProductID: order.ProductID,
		Total:     order.Total,
		Status:    order.Status,
		SlipURL:   order.SlipURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Orders[o.ID] = o
	clone := *o
	return &clone, nil
}

// GetByID returns stored order.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	clone := *o
	return &clone, nil
}

// ListByUser returns the user's orders, newest first.
func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, o := range s.Orders {
		if o.UserID == userID {
			result = append(result, *o)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

// List returns orders matching the filter ordered by id.
func (s *OrderRepositoryStub) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, o := range s.Orders {
		if filter.Status == "" || o.Status == filter.Status {
			result = append(result, *o)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// SetSession records the gateway session id.
func (s *OrderRepositoryStub) SetSession(ctx context.Context, orderID int64, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetSessionErr != nil {
		return s.SetSessionErr
	}
	o, ok := s.Orders[orderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	o.SessionID = &sessionID
	return nil
}

// Transition applies the change only when the current status is in from.
func (s *OrderRepositoryStub) Transition(ctx context.Context, orderID int64, from []model.OrderStatus, to model.OrderStatus, transactionID *string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.TransitionErr != nil {
		return nil, s.TransitionErr
	}
	o, ok := s.Orders[orderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	allowed := false
	for _, status := range from {
		if o.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("order %d is %s: %w", orderID, o.Status, domainErrors.ErrInvalidTransition)
	}
	o.Status = to
	if transactionID != nil {
		tx := *transactionID
		o.TransactionID = &tx
	}
	o.UpdatedAt = time.Now()
	s.Transitions++
	clone := *o
	return &clone, nil
}

// HasCompleted reports whether user owns a completed order for product.
func (s *OrderRepositoryStub) HasCompleted(ctx context.Context, userID, productID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.Orders {
		if o.UserID == userID && o.ProductID == productID && o.Status == model.OrderStatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

// SelectPendingCheckouts delegates to PendingFn or returns pending hosted orders.
func (s *OrderRepositoryStub) SelectPendingCheckouts(ctx context.Context, olderThan time.Duration, limit int) ([]model.Order, error) {
	if s.PendingFn != nil {
		return s.PendingFn(ctx, olderThan, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, o := range s.Orders {
		if o.Status == model.OrderStatusPending && o.SessionID != nil && len(result) < limit {
			result = append(result, *o)
		}
	}
	return result, nil
}

// LicenseRepositoryStub enforces one key per order.
type LicenseRepositoryStub struct {
	ByOrder map[int64]*model.LicenseKey
	Err     error
	Issued  int
	mu      sync.Mutex
}

func NewLicenseRepositoryStub() *LicenseRepositoryStub {
	return &LicenseRepositoryStub{ByOrder: make(map[int64]*model.LicenseKey)}
}

// Issue stores key unless the order already owns one.
func (s *LicenseRepositoryStub) Issue(ctx context.Context, orderID int64, key string) (*model.LicenseKey, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, false, s.Err
	}
	if existing, ok := s.ByOrder[orderID]; ok {
		return existing, false, nil
	}
	s.Issued++
	l := &model.LicenseKey{ID: int64(s.Issued), OrderID: orderID, Key: key, CreatedAt: time.Now()}
	s.ByOrder[orderID] = l
	return l, true, nil
}

// GetByOrder returns key for order.
func (s *LicenseRepositoryStub) GetByOrder(ctx context.Context, orderID int64) (*model.LicenseKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.ByOrder[orderID]; ok {
		return l, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ListByUser returns every stored key; tests seed a single user.
func (s *LicenseRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.OwnedLicense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.OwnedLicense
	for _, l := range s.ByOrder {
		result = append(result, model.OwnedLicense{Key: l.Key, OrderID: l.OrderID, IssuedAt: l.CreatedAt})
	}
	return result, nil
}

// NotificationRepositoryStub keeps notifications in memory.
type NotificationRepositoryStub struct {
	Items []model.Notification
	Err   error
	mu    sync.Mutex
}

// Create appends a notification.
func (s *NotificationRepositoryStub) Create(ctx context.Context, userID int64, message string, link *string) (*model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	n := model.Notification{ID: int64(len(s.Items) + 1), UserID: userID, Message: message, Link: link, CreatedAt: time.Now()}
	s.Items = append(s.Items, n)
	return &n, nil
}

// ListByUser returns up to limit notifications of the user.
func (s *NotificationRepositoryStub) ListByUser(ctx context.Context, userID int64, limit int) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Notification
	for _, n := range s.Items {
		if n.UserID == userID && len(result) < limit {
			result = append(result, n)
		}
	}
	return result, nil
}

// MarkRead flags a single notification owned by the user.
func (s *NotificationRepositoryStub) MarkRead(ctx context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Items {
		if s.Items[i].ID == id && s.Items[i].UserID == userID {
			s.Items[i].IsRead = true
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

// MarkAllRead flags every unread notification of the user.
func (s *NotificationRepositoryStub) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var updated int64
	for i := range s.Items {
		if s.Items[i].UserID == userID && !s.Items[i].IsRead {
			s.Items[i].IsRead = true
			updated++
		}
	}
	return updated, nil
}

// CountUnread counts unread notifications of the user.
func (s *NotificationRepositoryStub) CountUnread(ctx context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, n := range s.Items {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

// LedgerRepositoryStub keeps XP per user and the daily sentinels.
type LedgerRepositoryStub struct {
	XP     map[int64]int64
	Events []model.XPAward
	Err    error
	mu     sync.Mutex
}

func NewLedgerRepositoryStub() *LedgerRepositoryStub {
	return &LedgerRepositoryStub{XP: make(map[int64]int64)}
}

func (s *LedgerRepositoryStub) apply(award model.XPAward) *model.GamificationProfile {
	s.XP[award.UserID] += award.Amount
	s.Events = append(s.Events, award)
	xp := s.XP[award.UserID]
	return &model.GamificationProfile{UserID: award.UserID, XP: xp, Level: model.LevelForXP(xp)}
}

// Award adds XP.
func (s *LedgerRepositoryStub) Award(ctx context.Context, award model.XPAward) (*model.GamificationProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.apply(award), nil
}

// AwardOnce adds XP unless the same user, reason and day was already awarded.
func (s *LedgerRepositoryStub) AwardOnce(ctx context.Context, award model.XPAward) (*model.GamificationProfile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, false, s.Err
	}
	for _, e := range s.Events {
		if e.UserID == award.UserID && e.Reason == award.Reason && e.AwardedOn.Equal(award.AwardedOn) {
			xp := s.XP[award.UserID]
			return &model.GamificationProfile{UserID: award.UserID, XP: xp, Level: model.LevelForXP(xp)}, false, nil
		}
	}
	return s.apply(award), true, nil
}

// Profile returns current XP standing.
func (s *LedgerRepositoryStub) Profile(ctx context.Context, userID int64) (*model.GamificationProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	xp := s.XP[userID]
	return &model.GamificationProfile{UserID: userID, XP: xp, Level: model.LevelForXP(xp)}, nil
}
