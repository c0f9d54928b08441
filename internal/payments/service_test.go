package payments

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"buildex/server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore keeps the whole fulfillment state in memory so the service can be
// exercised without a database.
type fakeStore struct {
	mu             sync.Mutex
	payments       map[string]*models.Payment
	propertyStatus map[int64]string
	subscriptions  map[string]*models.RentSubscription
	nextID         int64
	createErr      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		payments:       make(map[string]*models.Payment),
		propertyStatus: make(map[int64]string),
		subscriptions:  make(map[string]*models.RentSubscription),
	}
}

func (f *fakeStore) CreatePayment(p *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	p.ID = f.nextID
	f.payments[p.GatewayOrderID] = p
	return nil
}

func (f *fakeStore) CompletePayment(orderID, gatewayPaymentID, signature string, at time.Time) (*models.Payment, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.payments[orderID]
	if !ok {
		return nil, false, fmt.Errorf("payment not found")
	}
	if p.Status == models.PaymentStatusCompleted {
		return p, true, nil
	}
	if p.Status != models.PaymentStatusPending {
		return nil, false, fmt.Errorf("payment in terminal state %s", p.Status)
	}

	p.Status = models.PaymentStatusCompleted
	p.GatewayPaymentID = &gatewayPaymentID
	p.GatewaySignature = &signature
	p.PaymentDate = &at

	if p.PaymentType == models.PaymentTypePurchase {
		f.propertyStatus[p.PropertyID] = models.AvailabilitySold
	} else {
		f.propertyStatus[p.PropertyID] = models.AvailabilityRented
	}

	if p.PaymentType == models.PaymentTypeRent {
		key := fmt.Sprintf("%d:%d", p.UserID, p.PropertyID)
		sub, exists := f.subscriptions[key]
		if !exists {
			sub = &models.RentSubscription{
				UserID:      p.UserID,
				PropertyID:  p.PropertyID,
				BuilderID:   p.BuilderID,
				MonthlyRent: p.Amount,
				StartDate:   at,
				IsActive:    true,
				Status:      models.SubscriptionStatusActive,
			}
			f.subscriptions[key] = sub
		}
		sub.NextPaymentDue = at.AddDate(0, 1, 0)
		sub.LastPaymentID = &p.ID
		sub.LastPaymentDate = &at
		sub.IsActive = true
	}

	return p, false, nil
}

func (f *fakeStore) FailPayment(orderID string, at time.Time) (*models.Payment, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.payments[orderID]
	if !ok {
		return nil, false, fmt.Errorf("payment not found")
	}
	if p.Status == models.PaymentStatusFailed {
		return p, true, nil
	}
	if p.Status != models.PaymentStatusPending {
		return nil, false, fmt.Errorf("payment in terminal state %s", p.Status)
	}
	p.Status = models.PaymentStatusFailed
	p.PaymentDate = &at
	return p, false, nil
}

// fakeGateway issues deterministic order ids and accepts the canonical
// signature for an order/payment pair.
type fakeGateway struct {
	mu       sync.Mutex
	orderSeq int
	orders   []int64
	fail     bool
}

func (g *fakeGateway) CreateOrder(amount int64, currency, receipt string, notes map[string]string) (*Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return nil, fmt.Errorf("gateway unreachable")
	}
	g.orderSeq++
	g.orders = append(g.orders, amount)
	return &Order{
		ID:       fmt.Sprintf("order_%d", g.orderSeq),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return signature == "sig:"+orderID+"|"+paymentID
}

type countingNotifier struct {
	mu    sync.Mutex
	calls []*models.Payment
	err   error
}

func (n *countingNotifier) SendPaymentEmails(p *models.Payment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, p)
	return n.err
}

func (n *countingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

func newTestService(store *fakeStore, gateway *fakeGateway, notifier *countingNotifier) *Service {
	svc := NewService(store, gateway, notifier, "rzp_test_key", "INR", nil)
	svc.now = func() time.Time { return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC) }
	svc.newReceipt = func() string { return "receipt_fixed" }
	return svc
}

func ptrFloat(v float64) *float64 { return &v }

func testUser() *models.User {
	return &models.User{ID: 7, FullName: "Asha Verma", Email: "asha@example.com", Phone: "9999999999", Role: models.RoleBuyer}
}

func testProperty() *models.Property {
	return &models.Property{
		ID:                 42,
		BuilderID:          3,
		Title:              "Lakeview Residency",
		Price:              ptrFloat(500000),
		MinRentAmount:      ptrFloat(15000),
		AvailabilityStatus: models.AvailabilityAvailable,
	}
}

func TestCheckoutRequiresAuthenticatedUser(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeGateway{}, &countingNotifier{})

	_, err := svc.Checkout(nil, testProperty(), models.PaymentTypePurchase, nil)
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestCheckoutRejectsNonPositiveAmount(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeGateway{}, &countingNotifier{})

	prop := testProperty()
	prop.Price = nil

	_, err := svc.Checkout(testUser(), prop, models.PaymentTypePurchase, nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Checkout(testUser(), testProperty(), models.PaymentTypePurchase, ptrFloat(-10))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCheckoutWithoutGatewayCredentials(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeGateway{}, &countingNotifier{})
	svc.keyID = ""

	_, err := svc.Checkout(testUser(), testProperty(), models.PaymentTypePurchase, nil)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestCheckoutCreatesPendingPaymentInMinorUnits(t *testing.T) {
	store := newFakeStore()
	gateway := &fakeGateway{}
	svc := newTestService(store, gateway, &countingNotifier{})

	session, err := svc.Checkout(testUser(), testProperty(), models.PaymentTypePurchase, nil)
	require.NoError(t, err)

	assert.Equal(t, "order_1", session.OrderID)
	assert.Equal(t, int64(50000000), session.Amount)
	assert.Equal(t, "INR", session.Currency)
	assert.Equal(t, "rzp_test_key", session.KeyID)
	assert.Equal(t, "Purchase of Lakeview Residency", session.Description)
	assert.Equal(t, "Asha Verma", session.Prefill.Name)

	p := store.payments["order_1"]
	require.NotNil(t, p)
	assert.Equal(t, models.PaymentStatusPending, p.Status)
	assert.Equal(t, float64(500000), p.Amount)
	assert.Equal(t, int64(7), p.UserID)
	assert.Equal(t, int64(42), p.PropertyID)
	assert.Nil(t, p.GatewayPaymentID)
}

func TestCheckoutRentUsesMinRent(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeGateway{}, &countingNotifier{})

	session, err := svc.Checkout(testUser(), testProperty(), models.PaymentTypeRent, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1500000), session.Amount)
	assert.Equal(t, "Rent Payment for Lakeview Residency", session.Description)
	assert.Equal(t, models.PaymentTypeRent, store.payments["order_1"].PaymentType)
}

func TestPurchaseSuccessMarksPropertySold(t *testing.T) {
	store := newFakeStore()
	gateway := &fakeGateway{}
	notifier := &countingNotifier{}
	svc := newTestService(store, gateway, notifier)

	_, err := svc.Checkout(testUser(), testProperty(), models.PaymentTypePurchase, nil)
	require.NoError(t, err)

	payment, err := svc.HandleSuccess("order_1", "pay_abc", "sig:order_1|pay_abc")
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	require.NotNil(t, payment.GatewayPaymentID)
	assert.Equal(t, "pay_abc", *payment.GatewayPaymentID)
	assert.Equal(t, models.AvailabilitySold, store.propertyStatus[42])
	assert.Equal(t, 1, notifier.count())
}

func TestSuccessCallbackRejectsBadSignature(t *testing.T) {
	store := newFakeStore()
	notifier := &countingNotifier{}
	svc := newTestService(store, &fakeGateway{}, notifier)

	_, err := svc.Checkout(testUser(), testProperty(), models.PaymentTypePurchase, nil)
	require.NoError(t, err)

	_, err = svc.HandleSuccess("order_1", "pay_abc", "sig:forged")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	// Nothing was written.
	assert.Equal(t, models.PaymentStatusPending, store.payments["order_1"].Status)
	assert.Empty(t, store.propertyStatus)
	assert.Equal(t, 0, notifier.count())
}

func TestReplayedSuccessCallbackIsNoOp(t *testing.T) {
	store := newFakeStore()
	notifier := &countingNotifier{}
	svc := newTestService(store, &fakeGateway{}, notifier)

	_, err := svc.Checkout(testUser(), testProperty(), models.PaymentTypePurchase, nil)
	require.NoError(t, err)

	first, err := svc.HandleSuccess("order_1", "pay_abc", "sig:order_1|pay_abc")
	require.NoError(t, err)

	second, err := svc.HandleSuccess("order_1", "pay_abc", "sig:order_1|pay_abc")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.PaymentStatusCompleted, second.Status)
	// The replay must not dispatch a second round of emails.
	assert.Equal(t, 1, notifier.count())
}

func TestRentSuccessRollsSubscriptionForward(t *testing.T) {
	store := newFakeStore()
	notifier := &countingNotifier{}
	svc := newTestService(store, &fakeGateway{}, notifier)

	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return jan }

	_, err := svc.Checkout(testUser(), testProperty(), models.PaymentTypeRent, nil)
	require.NoError(t, err)
	_, err = svc.HandleSuccess("order_1", "pay_jan", "sig:order_1|pay_jan")
	require.NoError(t, err)

	sub := store.subscriptions["7:42"]
	require.NotNil(t, sub)
	assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), sub.NextPaymentDue)
	assert.True(t, sub.IsActive)

	// A second rent payment for the same pair rolls the same row forward.
	feb := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return feb }

	_, err = svc.Checkout(testUser(), testProperty(), models.PaymentTypeRent, nil)
	require.NoError(t, err)
	_, err = svc.HandleSuccess("order_2", "pay_feb", "sig:order_2|pay_feb")
	require.NoError(t, err)

	assert.Len(t, store.subscriptions, 1)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), sub.NextPaymentDue)
	assert.Equal(t, models.AvailabilityRented, store.propertyStatus[42])
}

func TestFailureLeavesPropertyAndSubscriptionAlone(t *testing.T) {
	store := newFakeStore()
	notifier := &countingNotifier{}
	svc := newTestService(store, &fakeGateway{}, notifier)

	_, err := svc.Checkout(testUser(), testProperty(), models.PaymentTypeRent, nil)
	require.NoError(t, err)

	payment, err := svc.HandleFailure("order_1")
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusFailed, payment.Status)
	assert.Empty(t, store.propertyStatus)
	assert.Empty(t, store.subscriptions)
	assert.Equal(t, 0, notifier.count())
}

func TestNotifierErrorDoesNotFailTheCallback(t *testing.T) {
	store := newFakeStore()
	notifier := &countingNotifier{err: fmt.Errorf("smtp down")}
	svc := newTestService(store, &fakeGateway{}, notifier)

	_, err := svc.Checkout(testUser(), testProperty(), models.PaymentTypePurchase, nil)
	require.NoError(t, err)

	payment, err := svc.HandleSuccess("order_1", "pay_abc", "sig:order_1|pay_abc")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
}
