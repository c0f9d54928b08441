package database

import (
	"errors"
	"time"

	"buildex/server/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrTerminalTransition = errors.New("payment already in a terminal state")
)

func (d *Database) CreatePayment(p *models.Payment) error {
	return d.gorm.Create(p).Error
}

func (d *Database) GetPaymentByOrderID(orderID string) (*models.Payment, error) {
	var p models.Payment
	err := d.gorm.Where("gateway_order_id = ?", orderID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CompletePayment makes the terminal completed transition and its downstream
// writes in one transaction: the payment row, the property availability, and
// for rent payments the subscription upsert. Calling it again for an already
// completed payment is a no-op and reports already=true.
func (d *Database) CompletePayment(orderID, gatewayPaymentID, signature string, at time.Time) (payment *models.Payment, already bool, err error) {
	var p models.Payment
	err = d.gorm.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("gateway_order_id = ?", orderID).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}

		switch p.Status {
		case models.PaymentStatusCompleted:
			already = true
			return nil
		case models.PaymentStatusPending:
		default:
			return ErrTerminalTransition
		}

		if err := tx.Model(&models.Payment{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
			"status":             models.PaymentStatusCompleted,
			"gateway_payment_id": gatewayPaymentID,
			"gateway_signature":  signature,
			"payment_date":       at,
			"updated_at":         at,
		}).Error; err != nil {
			return err
		}
		p.Status = models.PaymentStatusCompleted
		p.GatewayPaymentID = &gatewayPaymentID
		p.GatewaySignature = &signature
		p.PaymentDate = &at

		availability := models.AvailabilitySold
		if p.PaymentType == models.PaymentTypeRent {
			availability = models.AvailabilityRented
		}
		if err := tx.Model(&models.Property{}).Where("id = ?", p.PropertyID).Updates(map[string]interface{}{
			"availability_status": availability,
			"updated_at":          at,
		}).Error; err != nil {
			return err
		}

		if p.PaymentType == models.PaymentTypeRent {
			nextDue := at.AddDate(0, 1, 0)
			sub := models.RentSubscription{
				UserID:          p.UserID,
				PropertyID:      p.PropertyID,
				BuilderID:       p.BuilderID,
				MonthlyRent:     p.Amount,
				StartDate:       at,
				NextPaymentDue:  nextDue,
				LastPaymentID:   &p.ID,
				LastPaymentDate: &at,
				IsActive:        true,
				Status:          models.SubscriptionStatusActive,
			}
			// Repeat rent payments roll the due date forward instead of
			// inserting a second row for the pair.
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "property_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"next_payment_due":  nextDue,
					"last_payment_id":   p.ID,
					"last_payment_date": at,
					"is_active":         true,
					"status":            models.SubscriptionStatusActive,
					"updated_at":        at,
				}),
			}).Create(&sub).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &p, already, nil
}

// FailPayment makes the terminal failed transition. No property or
// subscription mutation happens on this path.
func (d *Database) FailPayment(orderID string, at time.Time) (payment *models.Payment, already bool, err error) {
	var p models.Payment
	err = d.gorm.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("gateway_order_id = ?", orderID).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}

		switch p.Status {
		case models.PaymentStatusFailed:
			already = true
			return nil
		case models.PaymentStatusPending:
		default:
			return ErrTerminalTransition
		}

		if err := tx.Model(&models.Payment{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
			"status":             models.PaymentStatusFailed,
			"gateway_payment_id": nil,
			"updated_at":         at,
		}).Error; err != nil {
			return err
		}
		p.Status = models.PaymentStatusFailed
		p.GatewayPaymentID = nil
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &p, already, nil
}
