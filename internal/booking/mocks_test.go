package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zaikaclub/zaika/internal/audit"
	"github.com/zaikaclub/zaika/internal/catalog"
	"github.com/zaikaclub/zaika/internal/staff"
)

// MockBookingRepo is a mock implementation of BookingRepo for testing
type MockBookingRepo struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]*Booking

	CreateFunc func(ctx context.Context, b *Booking) error
	GetFunc    func(ctx context.Context, id uuid.UUID) (*Booking, error)
	SaveFunc   func(ctx context.Context, b *Booking) error
	DeleteFunc func(ctx context.Context, id uuid.UUID) error
}

func NewMockBookingRepo() *MockBookingRepo {
	return &MockBookingRepo{
		bookings: make(map[uuid.UUID]*Booking),
	}
}

func (m *MockBookingRepo) Create(ctx context.Context, b *Booking) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, b)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = b
	return nil
}

func (m *MockBookingRepo) Get(ctx context.Context, id uuid.UUID) (*Booking, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	return b, nil
}

func (m *MockBookingRepo) Save(ctx context.Context, b *Booking) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, b)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = b
	return nil
}

func (m *MockBookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bookings, id)
	return nil
}

func (m *MockBookingRepo) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Booking
	for _, b := range m.bookings {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if !filter.DateFrom.IsZero() && b.EventDate.Before(filter.DateFrom) {
			continue
		}
		if !filter.DateTo.IsZero() && !b.EventDate.Before(filter.DateTo.Add(24*time.Hour)) {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (m *MockBookingRepo) ListByDate(ctx context.Context, day time.Time) ([]*Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	want := day.Format(DateLayout)
	var result []*Booking
	for _, b := range m.bookings {
		if b.EventDay() == want {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *MockBookingRepo) ListUpcoming(ctx context.Context, from time.Time, days int) ([]*Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Booking
	for _, b := range m.bookings {
		if b.EventDate.Before(from) {
			continue
		}
		if days > 0 && !b.EventDate.Before(from.AddDate(0, 0, days)) {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (m *MockBookingRepo) ExistsWithFoodItem(ctx context.Context, foodItemID uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bookings {
		for _, item := range b.Items {
			if item.FoodItemID == foodItemID {
				return true, nil
			}
		}
	}
	return false, nil
}

// MockFoodItemRepo is a mock implementation of catalog.FoodItemRepo for testing
type MockFoodItemRepo struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*catalog.FoodItem

	GetFunc func(ctx context.Context, id uuid.UUID) (*catalog.FoodItem, error)
}

func NewMockFoodItemRepo() *MockFoodItemRepo {
	return &MockFoodItemRepo{
		items: make(map[uuid.UUID]*catalog.FoodItem),
	}
}

func (m *MockFoodItemRepo) Add(item *catalog.FoodItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
}

func (m *MockFoodItemRepo) Create(ctx context.Context, item *catalog.FoodItem) error {
	m.Add(item)
	return nil
}

func (m *MockFoodItemRepo) Get(ctx context.Context, id uuid.UUID) (*catalog.FoodItem, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return item, nil
}

func (m *MockFoodItemRepo) List(ctx context.Context) ([]*catalog.FoodItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*catalog.FoodItem
	for _, item := range m.items {
		result = append(result, item)
	}
	return result, nil
}

func (m *MockFoodItemRepo) ListActive(ctx context.Context) ([]*catalog.FoodItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*catalog.FoodItem
	for _, item := range m.items {
		if item.Active {
			result = append(result, item)
		}
	}
	return result, nil
}

func (m *MockFoodItemRepo) Save(ctx context.Context, item *catalog.FoodItem) error {
	m.Add(item)
	return nil
}

func (m *MockFoodItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

// MockStaffRepo is a mock implementation of staff.StaffRepo for testing
type MockStaffRepo struct {
	mu    sync.RWMutex
	staff map[uuid.UUID]*staff.Staff

	GetFunc func(ctx context.Context, id uuid.UUID) (*staff.Staff, error)
}

func NewMockStaffRepo() *MockStaffRepo {
	return &MockStaffRepo{
		staff: make(map[uuid.UUID]*staff.Staff),
	}
}

func (m *MockStaffRepo) Add(s *staff.Staff) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staff[s.ID] = s
}

func (m *MockStaffRepo) Create(ctx context.Context, s *staff.Staff) error {
	m.Add(s)
	return nil
}

func (m *MockStaffRepo) Get(ctx context.Context, id uuid.UUID) (*staff.Staff, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.staff[id]
	if !ok {
		return nil, nil
	}
	return s, nil
}

func (m *MockStaffRepo) List(ctx context.Context) ([]*staff.Staff, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*staff.Staff
	for _, s := range m.staff {
		result = append(result, s)
	}
	return result, nil
}

func (m *MockStaffRepo) Save(ctx context.Context, s *staff.Staff) error {
	m.Add(s)
	return nil
}

func (m *MockStaffRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.staff, id)
	return nil
}

// MockEntryRepo is a mock implementation of audit.EntryRepo for testing
type MockEntryRepo struct {
	mu      sync.RWMutex
	entries []*audit.Entry

	CreateFunc func(ctx context.Context, entry *audit.Entry) error
}

func NewMockEntryRepo() *MockEntryRepo {
	return &MockEntryRepo{}
}

func (m *MockEntryRepo) Create(ctx context.Context, entry *audit.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockEntryRepo) List(ctx context.Context, entityType string) ([]*audit.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*audit.Entry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if entityType != "" && m.entries[i].EntityType != entityType {
			continue
		}
		result = append(result, m.entries[i])
	}
	return result, nil
}

func (m *MockEntryRepo) Entries() []*audit.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*audit.Entry(nil), m.entries...)
}

// MockPublisher is a mock implementation of events.Publisher for testing
type MockPublisher struct {
	mu       sync.Mutex
	messages []publishedMessage

	PublishFunc func(ctx context.Context, topic string, msg []byte) error
}

type publishedMessage struct {
	topic string
	msg   []byte
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, publishedMessage{topic: topic, msg: msg})
	return nil
}

func (m *MockPublisher) Messages() []publishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]publishedMessage(nil), m.messages...)
}
