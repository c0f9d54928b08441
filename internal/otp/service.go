package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNotFound covers both unknown and expired codes; callers cannot
	// distinguish the two.
	ErrNotFound = errors.New("otp expired or not found")

	ErrMismatch = errors.New("invalid otp")
)

type Service struct {
	store  *Store
	logger *logrus.Logger
	ttl    time.Duration
}

func NewService(store *Store, ttl time.Duration, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		store:  store,
		logger: logger,
		ttl:    ttl,
	}
}

// Issue generates a fresh six-digit code for the key and parks the payload
// until the code is verified. A repeat Issue replaces the previous code.
func (s *Service) Issue(key string, payload interface{}) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	s.store.Put(key, code, payload, s.ttl)
	s.logger.WithField("key", key).Debug("Issued OTP")
	return code, nil
}

// Verify checks the code and, on success, consumes it and returns the parked
// payload. A code verifies at most once.
func (s *Service) Verify(key, code string) (interface{}, error) {
	stored, payload, ok := s.store.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	if stored != code {
		return nil, ErrMismatch
	}
	s.store.Delete(key)
	return payload, nil
}

func generateCode() (string, error) {
	// 100000..999999 so the code is always six digits.
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
