package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Matesfu/Mela-rent/internal/lifecycle"
	"github.com/Matesfu/Mela-rent/internal/models"
	"github.com/Matesfu/Mela-rent/internal/visibility"
)

// memStore is a map-backed stand-in for the MySQL repositories. It applies
// the same scope and uniqueness rules the SQL does.
type memStore struct {
	mu         sync.Mutex
	properties map[int]models.Property
	logs       []models.PaymentLog
	favorites  map[int]models.Favorite
	users      map[int]models.User
	sessions   map[string]models.Session
	nextID     int
}

func newMemStore() *memStore {
	return &memStore{
		properties: map[int]models.Property{},
		favorites:  map[int]models.Favorite{},
		users:      map[int]models.User{},
		sessions:   map[string]models.Session{},
	}
}

func (m *memStore) id() int {
	m.nextID++
	return m.nextID
}

// PropertyStore

type memProperties struct{ *memStore }

func (m memProperties) Create(_ context.Context, p models.Property) (models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.id()
	p.IsPaid, p.PaidUntil, p.IsDeleted, p.DeletedAt = false, nil, false, nil
	m.properties[p.ID] = p
	return p, nil
}

func (m memProperties) GetByID(_ context.Context, id int) (models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.properties[id]
	if !ok {
		return models.Property{}, models.ErrNoRecord
	}
	return p, nil
}

func (m memProperties) GetActive(ctx context.Context, id int) (models.Property, error) {
	p, err := m.GetByID(ctx, id)
	if err != nil {
		return p, err
	}
	if p.IsDeleted {
		return models.Property{}, models.ErrNoRecord
	}
	return p, nil
}

func (m memProperties) List(_ context.Context, scope visibility.Scope, f models.PropertyFilter) ([]models.Property, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []models.Property
	for _, p := range m.properties {
		if !scope.Admits(p) {
			continue
		}
		if scope.IncludeDeleted && f.IsDeleted != nil && p.IsDeleted != *f.IsDeleted {
			continue
		}
		if f.OwnerID != nil && p.OwnerID != *f.OwnerID {
			continue
		}
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := len(all)
	start := f.Offset()
	if start > total {
		start = total
	}
	end := start + f.Limit
	if end > total {
		end = total
	}
	return append([]models.Property{}, all[start:end]...), total, nil
}

func (m memProperties) Update(_ context.Context, id int, in models.PropertyInput, now time.Time) (models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.properties[id]
	if !ok || p.IsDeleted {
		return models.Property{}, models.ErrNoRecord
	}
	in.ApplyTo(&p)
	p.UpdatedAt = now
	m.properties[id] = p
	return p, nil
}

func (m memProperties) Archive(_ context.Context, p models.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.properties[p.ID]
	if !ok || cur.IsDeleted {
		return models.ErrNoRecord
	}
	cur.IsDeleted, cur.DeletedAt, cur.UpdatedAt = true, p.DeletedAt, p.UpdatedAt
	m.properties[p.ID] = cur
	return nil
}

func (m memProperties) HardDelete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.properties[id]; !ok {
		return models.ErrNoRecord
	}
	delete(m.properties, id)
	for fid, f := range m.favorites {
		if f.PropertyID == id {
			delete(m.favorites, fid)
		}
	}
	kept := m.logs[:0]
	for _, l := range m.logs {
		if l.PropertyID != id {
			kept = append(kept, l)
		}
	}
	m.logs = kept
	return nil
}

// PaymentStore

type memPayments struct{ *memStore }

func (m memPayments) RecordPayment(_ context.Context, pay lifecycle.Payment) (models.PaymentLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.properties[pay.Property.ID]
	if !ok || cur.IsDeleted {
		return models.PaymentLog{}, models.ErrNoRecord
	}
	cur.IsPaid, cur.PaidUntil, cur.UpdatedAt = true, pay.Property.PaidUntil, pay.Property.UpdatedAt
	m.properties[cur.ID] = cur
	log := pay.Log
	log.ID = m.id()
	m.logs = append(m.logs, log)
	return log, nil
}

func (m memPayments) ListByOwner(_ context.Context, ownerID int) ([]models.PaymentLog, error) {
	return m.filterLogs(func(l models.PaymentLog) bool { return l.OwnerID == ownerID }), nil
}

func (m memPayments) ListByProperty(_ context.Context, propertyID int) ([]models.PaymentLog, error) {
	return m.filterLogs(func(l models.PaymentLog) bool { return l.PropertyID == propertyID }), nil
}

func (m memPayments) filterLogs(keep func(models.PaymentLog) bool) []models.PaymentLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.PaymentLog{}
	for i := len(m.logs) - 1; i >= 0; i-- {
		if keep(m.logs[i]) {
			out = append(out, m.logs[i])
		}
	}
	return out
}

// FavoriteStore

type memFavorites struct{ *memStore }

func (m memFavorites) Create(_ context.Context, fav models.Favorite) (models.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.properties[fav.PropertyID]; !ok {
		return models.Favorite{}, fmt.Errorf("%w: property does not exist", models.ErrInvalidRequest)
	}
	for _, f := range m.favorites {
		if f.UserID == fav.UserID && f.PropertyID == fav.PropertyID {
			return models.Favorite{}, fmt.Errorf("%w: property is already in favorites", models.ErrConflict)
		}
	}
	fav.ID = m.id()
	m.favorites[fav.ID] = fav
	return fav, nil
}

func (m memFavorites) Delete(_ context.Context, id, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.favorites[id]
	if !ok || f.UserID != userID {
		return models.ErrNoRecord
	}
	delete(m.favorites, id)
	return nil
}

func (m memFavorites) ListByUser(_ context.Context, userID int) ([]models.FavoriteWithProperty, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.FavoriteWithProperty{}
	for _, f := range m.favorites {
		if f.UserID == userID {
			out = append(out, models.FavoriteWithProperty{ID: f.ID, Property: m.properties[f.PropertyID], CreatedAt: f.CreatedAt})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// UserStore

type memUsers struct{ *memStore }

func (m memUsers) CreateUser(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return models.User{}, models.ErrDuplicateEmail
		}
		if u.Username == user.Username {
			return models.User{}, models.ErrDuplicateUsername
		}
	}
	user.ID = m.id()
	m.users[user.ID] = user
	return user, nil
}

func (m memUsers) GetUserByID(_ context.Context, id int) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, models.ErrNoRecord
	}
	return u, nil
}

func (m memUsers) GetUserByUsername(_ context.Context, username string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, models.ErrNoRecord
}

func (m memUsers) UpdateLastLogin(_ context.Context, id int, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[id]
	u.LastLogin = &at
	m.users[id] = u
	return nil
}

func (m memUsers) UpdateRole(_ context.Context, id int, role models.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.ErrNoRecord
	}
	u.Role = role
	m.users[id] = u
	return nil
}

// SessionStore

type memSessions struct{ *memStore }

func (m memSessions) SetSession(_ context.Context, token string, s models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = s
	return nil
}

func (m memSessions) GetSession(_ context.Context, token string) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return models.Session{}, models.ErrNoRecord
	}
	return s, nil
}

func (m memSessions) DeleteSession(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

// fakeClock is a settable clock.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
