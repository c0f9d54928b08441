package payments

import (
	"fmt"
	"math"
	"time"

	"buildex/server/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Store is the persistence collaborator for the payment workflow. Terminal
// transitions report already=true when the payment was there before the call,
// so redelivered gateway callbacks stay side-effect free.
type Store interface {
	CreatePayment(p *models.Payment) error
	CompletePayment(orderID, gatewayPaymentID, signature string, at time.Time) (payment *models.Payment, already bool, err error)
	FailPayment(orderID string, at time.Time) (payment *models.Payment, already bool, err error)
}

// Notifier dispatches the completion emails. Failures never influence the
// payment outcome.
type Notifier interface {
	SendPaymentEmails(p *models.Payment) error
}

// Prefill carries the checkout widget's identity fields.
type Prefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

// CheckoutSession is everything the client-side widget needs to collect the
// payment. Amount is in minor currency units.
type CheckoutSession struct {
	PaymentID   int64             `json:"payment_id"`
	OrderID     string            `json:"order_id"`
	KeyID       string            `json:"key_id"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Description string            `json:"description"`
	Prefill     Prefill           `json:"prefill"`
	Notes       map[string]string `json:"notes"`
}

type Service struct {
	store    Store
	gateway  Gateway
	notifier Notifier
	logger   *logrus.Logger

	keyID    string
	currency string

	now        func() time.Time
	newReceipt func() string
}

func NewService(store Store, gateway Gateway, notifier Notifier, keyID, currency string, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		store:      store,
		gateway:    gateway,
		notifier:   notifier,
		logger:     logger,
		keyID:      keyID,
		currency:   currency,
		now:        time.Now,
		newReceipt: uuid.NewString,
	}
}

// resolveAmount picks the charge for the requested payment type, preferring
// an explicit override from the caller.
func resolveAmount(property *models.Property, paymentType string, override *float64) float64 {
	if override != nil {
		return *override
	}
	if paymentType == models.PaymentTypeRent {
		if property.MinRentAmount != nil {
			return *property.MinRentAmount
		}
		if property.RentAmount != nil {
			return *property.RentAmount
		}
		return 0
	}
	if property.Price != nil {
		return *property.Price
	}
	return 0
}

// Checkout validates the attempt, creates a gateway order, persists the
// pending payment keyed by the order id, and returns the widget session.
func (s *Service) Checkout(user *models.User, property *models.Property, paymentType string, amount *float64) (*CheckoutSession, error) {
	if user == nil {
		return nil, ErrAuthRequired
	}

	amt := resolveAmount(property, paymentType, amount)
	if amt <= 0 {
		return nil, ErrInvalidAmount
	}

	if s.keyID == "" {
		return nil, ErrGatewayUnavailable
	}

	minorUnits := int64(math.Round(amt * 100))
	notes := map[string]string{
		"property_id":  fmt.Sprintf("%d", property.ID),
		"payment_type": paymentType,
		"user_id":      fmt.Sprintf("%d", user.ID),
	}

	order, err := s.gateway.CreateOrder(minorUnits, s.currency, s.newReceipt(), notes)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	description := "Purchase of " + property.Title
	if paymentType == models.PaymentTypeRent {
		description = "Rent Payment for " + property.Title
	}

	payment := &models.Payment{
		UserID:         user.ID,
		PropertyID:     property.ID,
		BuilderID:      property.BuilderID,
		PaymentType:    paymentType,
		Amount:         amt,
		GatewayOrderID: order.ID,
		Status:         models.PaymentStatusPending,
		Description:    description,
	}
	if err := s.store.CreatePayment(payment); err != nil {
		return nil, fmt.Errorf("failed to create payment record: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"order_id":   order.ID,
		"type":       paymentType,
	}).Info("Checkout session created")

	return &CheckoutSession{
		PaymentID:   payment.ID,
		OrderID:     order.ID,
		KeyID:       s.keyID,
		Amount:      minorUnits,
		Currency:    s.currency,
		Description: description,
		Prefill: Prefill{
			Name:    user.FullName,
			Email:   user.Email,
			Contact: user.Phone,
		},
		Notes: notes,
	}, nil
}

// HandleSuccess processes a success callback from the gateway. The signature
// is verified before anything is written; a replayed callback for an already
// completed payment changes nothing and dispatches no emails.
func (s *Service) HandleSuccess(orderID, gatewayPaymentID, signature string) (*models.Payment, error) {
	if !s.gateway.VerifySignature(orderID, gatewayPaymentID, signature) {
		s.logger.WithField("order_id", orderID).Warn("Rejected payment callback with bad signature")
		return nil, ErrInvalidSignature
	}

	payment, already, err := s.store.CompletePayment(orderID, gatewayPaymentID, signature, s.now())
	if err != nil {
		return nil, err
	}
	if already {
		s.logger.WithField("order_id", orderID).Info("Ignoring replayed success callback")
		return payment, nil
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"order_id":   orderID,
		"type":       payment.PaymentType,
	}).Info("Payment completed")

	if s.notifier != nil {
		if err := s.notifier.SendPaymentEmails(payment); err != nil {
			s.logger.WithError(err).Warn("Failed to send payment emails")
		}
	}
	return payment, nil
}

// HandleFailure records a failure callback. Property and subscription rows
// are never touched on this path.
func (s *Service) HandleFailure(orderID string) (*models.Payment, error) {
	payment, already, err := s.store.FailPayment(orderID, s.now())
	if err != nil {
		return nil, err
	}
	if !already {
		s.logger.WithFields(logrus.Fields{
			"payment_id": payment.ID,
			"order_id":   orderID,
		}).Info("Payment failed")
	}
	return payment, nil
}
