package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Matesfu/Mela-rent/internal/lifecycle"
	"github.com/Matesfu/Mela-rent/internal/models"
	"github.com/Matesfu/Mela-rent/internal/visibility"
)

// Logger provides the minimal logging the services need.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{}) {}
func (nopLogger) Errorf(string, ...interface{}) {}

type PropertyStore interface {
	Create(ctx context.Context, p models.Property) (models.Property, error)
	GetByID(ctx context.Context, id int) (models.Property, error)
	GetActive(ctx context.Context, id int) (models.Property, error)
	List(ctx context.Context, scope visibility.Scope, f models.PropertyFilter) ([]models.Property, int, error)
	Update(ctx context.Context, id int, in models.PropertyInput, now time.Time) (models.Property, error)
	Archive(ctx context.Context, p models.Property) error
	HardDelete(ctx context.Context, id int) error
}

type PaymentStore interface {
	RecordPayment(ctx context.Context, pay lifecycle.Payment) (models.PaymentLog, error)
	ListByOwner(ctx context.Context, ownerID int) ([]models.PaymentLog, error)
	ListByProperty(ctx context.Context, propertyID int) ([]models.PaymentLog, error)
}

type FavoriteStore interface {
	Create(ctx context.Context, fav models.Favorite) (models.Favorite, error)
	Delete(ctx context.Context, id, userID int) error
	ListByUser(ctx context.Context, userID int) ([]models.FavoriteWithProperty, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUserByID(ctx context.Context, id int) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	UpdateLastLogin(ctx context.Context, id int, at time.Time) error
	UpdateRole(ctx context.Context, id int, role models.Role) error
}

type SessionStore interface {
	SetSession(ctx context.Context, refreshToken string, session models.Session) error
	GetSession(ctx context.Context, refreshToken string) (models.Session, error)
	DeleteSession(ctx context.Context, refreshToken string) error
}

func clock(now func() time.Time) time.Time {
	if now == nil {
		return time.Now().UTC()
	}
	return now()
}

func logger(l Logger) Logger {
	if l == nil {
		return nopLogger{}
	}
	return l
}

// notFound turns a repository miss into the caller-facing not-found error.
func notFound(err error, msg string) error {
	if errors.Is(err, models.ErrNoRecord) {
		return fmt.Errorf("%w: %s", models.ErrNotFound, msg)
	}
	return err
}

func requireAuthenticated(caller models.Caller) error {
	if !caller.Authenticated {
		return fmt.Errorf("%w: authentication credentials were not provided", models.ErrUnauthenticated)
	}
	return nil
}

func requireRole(caller models.Caller, role models.Role, msg string) error {
	if err := requireAuthenticated(caller); err != nil {
		return err
	}
	if caller.Role != role {
		return fmt.Errorf("%w: %s", models.ErrForbidden, msg)
	}
	return nil
}
