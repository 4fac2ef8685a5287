package test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/wildfire-market/checkout/internal/domain/errors"
	"github.com/wildfire-market/checkout/internal/domain/model"
)

// SessionRepositoryStub is an in-memory session store with the same
// compare-and-set transition semantics as the PostgreSQL implementation.
type SessionRepositoryStub struct {
	mu       sync.Mutex
	sessions map[string]*model.CheckoutSession
}

// NewSessionRepositoryStub creates an empty in-memory session repository.
func NewSessionRepositoryStub() *SessionRepositoryStub {
	return &SessionRepositoryStub{sessions: make(map[string]*model.CheckoutSession)}
}

func (s *SessionRepositoryStub) GetOrCreate(_ context.Context, id string) (*model.CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		now := time.Now()
		session = &model.CheckoutSession{
			ID:         id,
			Step:       model.StepReviewingCart,
			Currency:   model.CurrencyUSDC,
			Settlement: model.SettlementIdle,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		s.sessions[id] = session
	}
	copied := *session
	return &copied, nil
}

func (s *SessionRepositoryStub) Get(_ context.Context, id string) (*model.CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *SessionRepositoryStub) UpdateStep(_ context.Context, id string, step model.CheckoutStep) error {
	return s.update(id, func(session *model.CheckoutSession) { session.Step = step })
}

func (s *SessionRepositoryStub) UpdateCurrency(_ context.Context, id string, currency model.Currency) error {
	return s.update(id, func(session *model.CheckoutSession) { session.Currency = currency })
}

func (s *SessionRepositoryStub) UpdateCustomer(_ context.Context, id string, info model.CustomerInfo, orderNumber string) error {
	return s.update(id, func(session *model.CheckoutSession) {
		session.Customer = info
		session.OrderNumber = orderNumber
	})
}

func (s *SessionRepositoryStub) TransitionSettlement(_ context.Context, id string, from, to model.SettlementStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if session.Settlement != from {
		return domainErrors.ErrSettlementInProgress
	}
	session.Settlement = to
	session.UpdatedAt = time.Now()
	return nil
}

func (s *SessionRepositoryStub) SetApproved(_ context.Context, id string, approved bool) error {
	return s.update(id, func(session *model.CheckoutSession) { session.Approved = approved })
}

func (s *SessionRepositoryStub) SetOnrampActive(_ context.Context, id string, active bool) error {
	return s.update(id, func(session *model.CheckoutSession) { session.OnrampActive = active })
}

func (s *SessionRepositoryStub) SelectExpiredBatch(_ context.Context, cutoff time.Time, limit int) ([]model.CheckoutSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.CheckoutSession
	for _, session := range s.sessions {
		if len(result) >= limit {
			break
		}
		if session.UpdatedAt.Before(cutoff) && session.Step != model.StepConfirmed && !session.SettlementInFlight() {
			result = append(result, *session)
		}
	}
	return result, nil
}

func (s *SessionRepositoryStub) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *SessionRepositoryStub) update(id string, fn func(*model.CheckoutSession)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	fn(session)
	session.UpdatedAt = time.Now()
	return nil
}

// CartRepositoryStub is an in-memory cart store.
type CartRepositoryStub struct {
	mu     sync.Mutex
	nextID int64
	lines  map[string][]*model.CartLine
}

// NewCartRepositoryStub creates an empty in-memory cart repository.
func NewCartRepositoryStub() *CartRepositoryStub {
	return &CartRepositoryStub{lines: make(map[string][]*model.CartLine)}
}

func (s *CartRepositoryStub) Upsert(_ context.Context, sessionID, productID, name string, unitPrice decimal.Decimal, quantity int) (*model.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range s.lines[sessionID] {
		if line.ProductID == productID {
			line.Quantity += quantity
			copied := *line
			return &copied, nil
		}
	}
	s.nextID++
	line := &model.CartLine{
		ID:          s.nextID,
		SessionID:   sessionID,
		ProductID:   productID,
		ProductName: name,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
		AddedAt:     time.Now(),
	}
	s.lines[sessionID] = append(s.lines[sessionID], line)
	copied := *line
	return &copied, nil
}

func (s *CartRepositoryStub) UpdateQuantity(_ context.Context, sessionID, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range s.lines[sessionID] {
		if line.ProductID == productID {
			line.Quantity = quantity
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *CartRepositoryStub) Remove(_ context.Context, sessionID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.lines[sessionID]
	for i, line := range lines {
		if line.ProductID == productID {
			s.lines[sessionID] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *CartRepositoryStub) ListBySession(_ context.Context, sessionID string) ([]model.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.CartLine
	for _, line := range s.lines[sessionID] {
		result = append(result, *line)
	}
	return result, nil
}

func (s *CartRepositoryStub) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lines, sessionID)
	return nil
}

// OrderRepositoryStub is an in-memory order store with a unique number index.
type OrderRepositoryStub struct {
	mu     sync.Mutex
	nextID int64
	orders map[string]*model.Order
}

// NewOrderRepositoryStub creates an empty in-memory order repository.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{orders: make(map[string]*model.Order)}
}

func (s *OrderRepositoryStub) Create(_ context.Context, order *model.Order) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[order.Number]; ok {
		return nil, domainErrors.ErrAlreadyExists
	}
	s.nextID++
	stored := *order
	stored.ID = s.nextID
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.orders[order.Number] = &stored
	copied := stored
	return &copied, nil
}

func (s *OrderRepositoryStub) GetByNumber(_ context.Context, number string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[number]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *OrderRepositoryStub) GetBySession(_ context.Context, sessionID string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.orders {
		if order.SessionID == sessionID {
			copied := *order
			return &copied, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *OrderRepositoryStub) UpdateStatus(_ context.Context, orderID int64, status model.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.orders {
		if order.ID == orderID {
			order.Status = status
			order.UpdatedAt = time.Now()
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *OrderRepositoryStub) Finalize(_ context.Context, orderID int64, txHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.orders {
		if order.ID == orderID {
			order.TxHash = txHash
			order.Status = model.OrderStatusCompleted
			order.UpdatedAt = time.Now()
			return nil
		}
	}
	return domainErrors.ErrNotFound
}
