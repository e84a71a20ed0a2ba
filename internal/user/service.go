package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/healthtrack/internal/telemetry/tracing"
	"github.com/2beens/healthtrack/pkg"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=user_test

const (
	oneHour = 60 * 60
	// profileCacheExpire keeps resolved profiles in memory, profile
	// updates invalidate the entry
	profileCacheExpire = oneHour * 1
)

type userRepo interface {
	Add(ctx context.Context, u User) (*User, error)
	Get(ctx context.Context, id int) (*User, error)
	GetByPhone(ctx context.Context, phoneNumber string) (*User, error)
	Update(ctx context.Context, u *User) error
}

// Service resolves and caches users by phone number. Unknown phone
// numbers get a fresh user record on first sight, so clients never
// have to register explicitly.
type Service struct {
	repo  userRepo
	cache *freecache.Cache
}

func NewService(repo userRepo) *Service {
	megabyte := 1024 * 1024
	cacheSize := 10 * megabyte

	return &Service{
		repo:  repo,
		cache: freecache.NewCache(cacheSize),
	}
}

func profileCacheKey(phoneNumber string) []byte {
	return []byte(fmt.Sprintf("profile::%s", phoneNumber))
}

// ResolveID returns the user ID for the given phone number, creating
// the user if they do not exist yet.
func (s *Service) ResolveID(ctx context.Context, phoneNumber string) (int, error) {
	u, err := s.GetByPhone(ctx, phoneNumber)
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}

func (s *Service) GetByPhone(ctx context.Context, phoneNumber string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.user.getByPhone")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if phoneNumber == "" {
		return nil, errors.New("phone number empty")
	}

	if userBytes, err := s.cache.Get(profileCacheKey(phoneNumber)); err == nil {
		span.SetAttributes(attribute.Bool("user.from-cache", true))
		cachedUser := &User{}
		if err = json.Unmarshal(userBytes, cachedUser); err == nil {
			return cachedUser, nil
		}
		log.Errorf("failed to unmarshal cached user profile: %s", err)
	}
	span.SetAttributes(attribute.Bool("user.from-cache", false))

	u, err := s.repo.GetByPhone(ctx, phoneNumber)
	if errors.Is(err, ErrUserNotFound) {
		log.Debugf("user with phone %s not found, creating", phoneNumber)
		u, err = s.repo.Add(ctx, User{PhoneNumber: phoneNumber})
		if pkg.IsUniqueViolationError(err) {
			// lost the race against a concurrent first log, the user is there now
			u, err = s.repo.GetByPhone(ctx, phoneNumber)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("get or create user: %w", err)
	}

	s.cacheProfile(u)

	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, u *User) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.user.updateProfile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", u.ID))

	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}

	s.cache.Del(profileCacheKey(u.PhoneNumber))

	return nil
}

func (s *Service) cacheProfile(u *User) {
	userBytes, err := json.Marshal(u)
	if err != nil {
		log.Errorf("failed to marshal user profile for cache: %s", err)
		return
	}
	if err := s.cache.Set(profileCacheKey(u.PhoneNumber), userBytes, profileCacheExpire); err != nil {
		log.Errorf("failed to cache user profile: %s", err)
	}
}
