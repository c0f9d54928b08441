package database

import (
	"database/sql"
	"time"

	"buildex/server/internal/models"
)

func (d *Database) GetUserPayments(userID int64) ([]models.Payment, error) {
	rows, err := d.db.Query(`
        SELECT p.id, p.user_id, p.property_id, p.builder_id, p.payment_type, p.amount,
               p.gateway_order_id, p.gateway_payment_id, p.status, p.description, p.payment_date,
               COALESCE(p.created_at, CURRENT_TIMESTAMP), COALESCE(p.updated_at, CURRENT_TIMESTAMP),
               pr.title, pr.city, u.full_name
        FROM payments p
        LEFT JOIN properties pr ON p.property_id = pr.id
        LEFT JOIN users u ON p.builder_id = u.id
        WHERE p.user_id = ?
        ORDER BY p.created_at DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		var gatewayPaymentID, description, paymentDate sql.NullString
		var createdAt, updatedAt, propertyName, city, builderName sql.NullString
		if err := rows.Scan(&p.ID, &p.UserID, &p.PropertyID, &p.BuilderID, &p.PaymentType, &p.Amount,
			&p.GatewayOrderID, &gatewayPaymentID, &p.Status, &description, &paymentDate,
			&createdAt, &updatedAt, &propertyName, &city, &builderName); err != nil {
			return nil, err
		}
		if gatewayPaymentID.Valid {
			v := gatewayPaymentID.String
			p.GatewayPaymentID = &v
		}
		p.Description = description.String
		if paymentDate.Valid && paymentDate.String != "" {
			t := parseTimestamp(paymentDate.String)
			p.PaymentDate = &t
		}
		p.CreatedAt = parseTimestamp(createdAt.String)
		p.UpdatedAt = parseTimestamp(updatedAt.String)
		p.PropertyName = propertyName.String
		p.City = city.String
		p.BuilderName = builderName.String
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (d *Database) GetBuilderPayments(builderID int64) ([]models.Payment, error) {
	rows, err := d.db.Query(`
        SELECT p.id, p.user_id, p.property_id, p.builder_id, p.payment_type, p.amount,
               p.gateway_order_id, p.gateway_payment_id, p.status, p.description, p.payment_date,
               COALESCE(p.created_at, CURRENT_TIMESTAMP), COALESCE(p.updated_at, CURRENT_TIMESTAMP),
               pr.title, pr.city, u.full_name, u.email
        FROM payments p
        LEFT JOIN properties pr ON p.property_id = pr.id
        LEFT JOIN users u ON p.user_id = u.id
        WHERE p.builder_id = ?
        ORDER BY p.created_at DESC
    `, builderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		var gatewayPaymentID, description, paymentDate sql.NullString
		var createdAt, updatedAt, propertyName, city, userName, userEmail sql.NullString
		if err := rows.Scan(&p.ID, &p.UserID, &p.PropertyID, &p.BuilderID, &p.PaymentType, &p.Amount,
			&p.GatewayOrderID, &gatewayPaymentID, &p.Status, &description, &paymentDate,
			&createdAt, &updatedAt, &propertyName, &city, &userName, &userEmail); err != nil {
			return nil, err
		}
		if gatewayPaymentID.Valid {
			v := gatewayPaymentID.String
			p.GatewayPaymentID = &v
		}
		p.Description = description.String
		if paymentDate.Valid && paymentDate.String != "" {
			t := parseTimestamp(paymentDate.String)
			p.PaymentDate = &t
		}
		p.CreatedAt = parseTimestamp(createdAt.String)
		p.UpdatedAt = parseTimestamp(updatedAt.String)
		p.PropertyName = propertyName.String
		p.City = city.String
		p.UserName = userName.String
		p.UserEmail = userEmail.String
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (d *Database) GetUserRentSubscriptions(userID int64) ([]models.RentSubscription, error) {
	rows, err := d.db.Query(`
        SELECT rs.id, rs.user_id, rs.property_id, rs.builder_id, rs.monthly_rent,
               rs.start_date, rs.next_payment_due, rs.last_payment_id, rs.last_payment_date,
               rs.is_active, rs.status,
               COALESCE(rs.created_at, CURRENT_TIMESTAMP), COALESCE(rs.updated_at, CURRENT_TIMESTAMP),
               p.title, p.city, p.area, u.full_name, u.phone
        FROM rent_subscriptions rs
        LEFT JOIN properties p ON rs.property_id = p.id
        LEFT JOIN users u ON rs.builder_id = u.id
        WHERE rs.user_id = ?
        ORDER BY rs.is_active DESC, rs.next_payment_due ASC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.RentSubscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// GetSubscriptionsDueWithin returns active subscriptions whose next payment
// falls inside the lead window, for the reminder job.
func (d *Database) GetSubscriptionsDueWithin(now time.Time, leadDays int) ([]models.RentSubscription, error) {
	cutoff := now.AddDate(0, 0, leadDays)
	rows, err := d.db.Query(`
        SELECT rs.id, rs.user_id, rs.property_id, rs.builder_id, rs.monthly_rent,
               rs.start_date, rs.next_payment_due, rs.last_payment_id, rs.last_payment_date,
               rs.is_active, rs.status,
               COALESCE(rs.created_at, CURRENT_TIMESTAMP), COALESCE(rs.updated_at, CURRENT_TIMESTAMP),
               p.title, p.city, p.area, u.full_name, u.phone
        FROM rent_subscriptions rs
        LEFT JOIN properties p ON rs.property_id = p.id
        LEFT JOIN users u ON rs.builder_id = u.id
        WHERE rs.is_active = 1
        AND date(rs.next_payment_due) >= date(?)
        AND date(rs.next_payment_due) <= date(?)
        ORDER BY rs.next_payment_due ASC
    `, now.Format("2006-01-02"), cutoff.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.RentSubscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func scanSubscription(rows *sql.Rows) (models.RentSubscription, error) {
	var s models.RentSubscription
	var startDate, nextDue, lastPaymentDate, createdAt, updatedAt sql.NullString
	var lastPaymentID sql.NullInt64
	var propertyName, city, area, builderName, builderPhone sql.NullString

	err := rows.Scan(&s.ID, &s.UserID, &s.PropertyID, &s.BuilderID, &s.MonthlyRent,
		&startDate, &nextDue, &lastPaymentID, &lastPaymentDate,
		&s.IsActive, &s.Status, &createdAt, &updatedAt,
		&propertyName, &city, &area, &builderName, &builderPhone)
	if err != nil {
		return s, err
	}

	s.StartDate = parseTimestamp(startDate.String)
	s.NextPaymentDue = parseTimestamp(nextDue.String)
	if lastPaymentID.Valid {
		v := lastPaymentID.Int64
		s.LastPaymentID = &v
	}
	if lastPaymentDate.Valid && lastPaymentDate.String != "" {
		t := parseTimestamp(lastPaymentDate.String)
		s.LastPaymentDate = &t
	}
	s.CreatedAt = parseTimestamp(createdAt.String)
	s.UpdatedAt = parseTimestamp(updatedAt.String)
	s.PropertyName = propertyName.String
	s.City = city.String
	s.Area = area.String
	s.BuilderName = builderName.String
	s.BuilderPhone = builderPhone.String
	return s, nil
}

// ExpirePendingPayments marks payments abandoned mid-checkout. A pending row
// older than maxAge can no longer complete through the widget callback.
func (d *Database) ExpirePendingPayments(now time.Time, maxAge time.Duration) (int64, error) {
	cutoff := now.Add(-maxAge)
	result, err := d.db.Exec(`
        UPDATE payments
        SET status = ?, updated_at = CURRENT_TIMESTAMP
        WHERE status = ? AND created_at < ?
    `, models.PaymentStatusExpired, models.PaymentStatusPending, cutoff.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// GetUserRentHistory returns completed rent payments for dashboard views.
func (d *Database) GetUserRentHistory(userID int64) ([]models.Payment, error) {
	rows, err := d.db.Query(`
        SELECT p.id, p.user_id, p.property_id, p.builder_id, p.payment_type, p.amount,
               p.gateway_order_id, p.gateway_payment_id, p.status, p.description, p.payment_date,
               COALESCE(p.created_at, CURRENT_TIMESTAMP), COALESCE(p.updated_at, CURRENT_TIMESTAMP),
               pr.title, pr.city
        FROM payments p
        LEFT JOIN properties pr ON p.property_id = pr.id
        WHERE p.user_id = ? AND p.payment_type = ? AND p.status = ?
        ORDER BY p.payment_date DESC
    `, userID, models.PaymentTypeRent, models.PaymentStatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		var gatewayPaymentID, description, paymentDate sql.NullString
		var createdAt, updatedAt, propertyName, city sql.NullString
		if err := rows.Scan(&p.ID, &p.UserID, &p.PropertyID, &p.BuilderID, &p.PaymentType, &p.Amount,
			&p.GatewayOrderID, &gatewayPaymentID, &p.Status, &description, &paymentDate,
			&createdAt, &updatedAt, &propertyName, &city); err != nil {
			return nil, err
		}
		if gatewayPaymentID.Valid {
			v := gatewayPaymentID.String
			p.GatewayPaymentID = &v
		}
		p.Description = description.String
		if paymentDate.Valid && paymentDate.String != "" {
			t := parseTimestamp(paymentDate.String)
			p.PaymentDate = &t
		}
		p.CreatedAt = parseTimestamp(createdAt.String)
		p.UpdatedAt = parseTimestamp(updatedAt.String)
		p.PropertyName = propertyName.String
		p.City = city.String
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
