package otp

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable clock for expiry tests.
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestService(clock *fakeClock) *Service {
	store := NewStore(clock.Now)
	return NewService(store, 10*time.Minute, logrus.New())
}

func TestService_IssueAndVerify(t *testing.T) {
	clock := &fakeClock{current: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(clock)

	payload := map[string]string{"email": "user@example.com"}
	code, err := svc.Issue("user@example.com", payload)
	require.NoError(t, err)
	assert.Len(t, code, 6)

	got, err := svc.Verify("user@example.com", code)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestService_VerifyWrongCode(t *testing.T) {
	clock := &fakeClock{current: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(clock)

	code, err := svc.Issue("user@example.com", nil)
	require.NoError(t, err)

	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}
	_, err = svc.Verify("user@example.com", wrong)
	assert.ErrorIs(t, err, ErrMismatch)

	// A wrong attempt does not consume the code.
	_, err = svc.Verify("user@example.com", code)
	assert.NoError(t, err)
}

func TestService_VerifyUnknownKey(t *testing.T) {
	clock := &fakeClock{current: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(clock)

	_, err := svc.Verify("nobody@example.com", "123456")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_CodeExpires(t *testing.T) {
	clock := &fakeClock{current: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(clock)

	code, err := svc.Issue("user@example.com", nil)
	require.NoError(t, err)

	clock.Advance(11 * time.Minute)

	_, err = svc.Verify("user@example.com", code)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_CodeIsSingleUse(t *testing.T) {
	clock := &fakeClock{current: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)}
	svc := newTestService(clock)

	code, err := svc.Issue("user@example.com", nil)
	require.NoError(t, err)

	_, err = svc.Verify("user@example.com", code)
	require.NoError(t, err)

	_, err = svc.Verify("user@example.com", code)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_ReissueReplacesCode(t *testing.T) {
	clock := &fakeClock{current: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)}
	store := NewStore(clock.Now)
	svc := NewService(store, 10*time.Minute, logrus.New())

	first, err := svc.Issue("user@example.com", nil)
	require.NoError(t, err)
	second, err := svc.Issue("user@example.com", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	if first != second {
		_, err = svc.Verify("user@example.com", first)
		assert.ErrorIs(t, err, ErrMismatch)
	}
	_, err = svc.Verify("user@example.com", second)
	assert.NoError(t, err)
}
