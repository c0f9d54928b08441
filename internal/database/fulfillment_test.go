package database

import (
	"path/filepath"
	"testing"
	"time"

	"buildex/server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDatabase(t *testing.T) *Database {
	d, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	require.NoError(t, d.RunMigrations())

	_, err = d.db.Exec(`INSERT INTO users (id, username, full_name, email, phone, role, status)
		VALUES (7, 'asha', 'Asha Verma', 'asha@example.com', '9999999999', 'buyer', 'approved'),
		       (3, 'skyline', 'Skyline Builders', 'skyline@example.com', '8888888888', 'builder', 'approved')`)
	require.NoError(t, err)

	_, err = d.db.Exec(`INSERT INTO properties (id, builder_id, title, property_type, purpose, price, min_rent_amount, city, availability_status)
		VALUES (42, 3, 'Lakeview Residency', 'apartment', 'sale', 500000, 15000, 'Pune', 'AVAILABLE')`)
	require.NoError(t, err)

	return d
}

func seedPendingPayment(t *testing.T, d *Database, orderID, paymentType string, amount float64) *models.Payment {
	p := &models.Payment{
		UserID:         7,
		PropertyID:     42,
		BuilderID:      3,
		PaymentType:    paymentType,
		Amount:         amount,
		GatewayOrderID: orderID,
		Status:         models.PaymentStatusPending,
	}
	require.NoError(t, d.CreatePayment(p))
	return p
}

func propertyStatus(t *testing.T, d *Database, id int64) string {
	var status string
	require.NoError(t, d.db.QueryRow(`SELECT availability_status FROM properties WHERE id = ?`, id).Scan(&status))
	return status
}

func TestCompletePaymentPurchase(t *testing.T) {
	d := setupTestDatabase(t)
	seedPendingPayment(t, d, "order_1", models.PaymentTypePurchase, 500000)

	at := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	payment, already, err := d.CompletePayment("order_1", "pay_abc", "sigvalue", at)
	require.NoError(t, err)
	assert.False(t, already)

	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	require.NotNil(t, payment.GatewayPaymentID)
	assert.Equal(t, "pay_abc", *payment.GatewayPaymentID)
	assert.Equal(t, models.AvailabilitySold, propertyStatus(t, d, 42))

	// Purchases never create a subscription.
	var count int
	require.NoError(t, d.db.QueryRow(`SELECT COUNT(*) FROM rent_subscriptions`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestCompletePaymentReplay(t *testing.T) {
	d := setupTestDatabase(t)
	seedPendingPayment(t, d, "order_1", models.PaymentTypePurchase, 500000)

	at := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	first, already, err := d.CompletePayment("order_1", "pay_abc", "sigvalue", at)
	require.NoError(t, err)
	assert.False(t, already)

	second, already, err := d.CompletePayment("order_1", "pay_abc", "sigvalue", at.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, already)
	assert.Equal(t, first.ID, second.ID)

	// The payment date from the first completion survives the replay.
	var stored string
	require.NoError(t, d.db.QueryRow(`SELECT payment_date FROM payments WHERE gateway_order_id = ?`, "order_1").Scan(&stored))
	assert.WithinDuration(t, at, parseTimestamp(stored), time.Second)
}

func TestCompletePaymentRentCreatesSubscription(t *testing.T) {
	d := setupTestDatabase(t)
	seedPendingPayment(t, d, "order_jan", models.PaymentTypeRent, 15000)

	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	_, _, err := d.CompletePayment("order_jan", "pay_jan", "sig_jan", jan)
	require.NoError(t, err)

	assert.Equal(t, models.AvailabilityRented, propertyStatus(t, d, 42))

	subs, err := d.GetUserRentSubscriptions(7)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, float64(15000), subs[0].MonthlyRent)
	assert.Equal(t, "2024-02-15", subs[0].NextPaymentDue.UTC().Format("2006-01-02"))
	assert.True(t, subs[0].IsActive)

	// A second rent payment for the same pair rolls the row forward.
	seedPendingPayment(t, d, "order_feb", models.PaymentTypeRent, 15000)
	feb := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	_, _, err = d.CompletePayment("order_feb", "pay_feb", "sig_feb", feb)
	require.NoError(t, err)

	subs, err = d.GetUserRentSubscriptions(7)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "2024-03-10", subs[0].NextPaymentDue.UTC().Format("2006-01-02"))
}

func TestFailPayment(t *testing.T) {
	d := setupTestDatabase(t)
	seedPendingPayment(t, d, "order_1", models.PaymentTypeRent, 15000)

	at := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	payment, already, err := d.FailPayment("order_1", at)
	require.NoError(t, err)
	assert.False(t, already)
	assert.Equal(t, models.PaymentStatusFailed, payment.Status)
	assert.Nil(t, payment.GatewayPaymentID)

	// Failure leaves the property and subscriptions untouched.
	assert.Equal(t, models.AvailabilityAvailable, propertyStatus(t, d, 42))
	var count int
	require.NoError(t, d.db.QueryRow(`SELECT COUNT(*) FROM rent_subscriptions`).Scan(&count))
	assert.Equal(t, 0, count)

	// A replayed failure callback is a no-op.
	_, already, err = d.FailPayment("order_1", at.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, already)
}

func TestCompleteAfterFailureIsRejected(t *testing.T) {
	d := setupTestDatabase(t)
	seedPendingPayment(t, d, "order_1", models.PaymentTypePurchase, 500000)

	at := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	_, _, err := d.FailPayment("order_1", at)
	require.NoError(t, err)

	_, _, err = d.CompletePayment("order_1", "pay_abc", "sigvalue", at)
	assert.ErrorIs(t, err, ErrTerminalTransition)
	assert.Equal(t, models.AvailabilityAvailable, propertyStatus(t, d, 42))
}

func TestCompleteUnknownOrder(t *testing.T) {
	d := setupTestDatabase(t)

	_, _, err := d.CompletePayment("order_missing", "pay_abc", "sigvalue", time.Now())
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestExpirePendingPayments(t *testing.T) {
	d := setupTestDatabase(t)

	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	stale := seedPendingPayment(t, d, "order_stale", models.PaymentTypePurchase, 500000)
	_, err := d.db.Exec(`UPDATE payments SET created_at = ? WHERE id = ?`,
		now.Add(-48*time.Hour).Format("2006-01-02 15:04:05"), stale.ID)
	require.NoError(t, err)

	seedPendingPayment(t, d, "order_fresh", models.PaymentTypePurchase, 500000)
	_, err = d.db.Exec(`UPDATE payments SET created_at = ? WHERE gateway_order_id = 'order_fresh'`,
		now.Add(-time.Hour).Format("2006-01-02 15:04:05"))
	require.NoError(t, err)

	n, err := d.ExpirePendingPayments(now, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var status string
	require.NoError(t, d.db.QueryRow(`SELECT status FROM payments WHERE gateway_order_id = 'order_stale'`).Scan(&status))
	assert.Equal(t, models.PaymentStatusExpired, status)
	require.NoError(t, d.db.QueryRow(`SELECT status FROM payments WHERE gateway_order_id = 'order_fresh'`).Scan(&status))
	assert.Equal(t, models.PaymentStatusPending, status)

	// An expired payment can no longer complete.
	_, _, err = d.CompletePayment("order_stale", "pay_late", "sig", now)
	assert.ErrorIs(t, err, ErrTerminalTransition)
}
