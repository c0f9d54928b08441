package email

import (
	"fmt"

	"buildex/server/internal/models"

	"github.com/sirupsen/logrus"
)

// Directory resolves the parties of a payment to addressable records.
type Directory interface {
	GetUserByID(id int64) (*models.User, error)
	GetPropertyByID(id int64) (*models.Property, error)
}

// PaymentNotifier builds and queues the pair of emails sent when a payment
// completes: a confirmation to the paying user and a notification to the
// property owner.
type PaymentNotifier struct {
	directory Directory
	queue     *MailQueue
	logger    *logrus.Logger
}

func NewPaymentNotifier(directory Directory, queue *MailQueue, logger *logrus.Logger) *PaymentNotifier {
	return &PaymentNotifier{
		directory: directory,
		queue:     queue,
		logger:    logger,
	}
}

func (n *PaymentNotifier) SendPaymentEmails(p *models.Payment) error {
	user, err := n.directory.GetUserByID(p.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve paying user: %w", err)
	}
	builder, err := n.directory.GetUserByID(p.BuilderID)
	if err != nil {
		return fmt.Errorf("failed to resolve property owner: %w", err)
	}
	property, err := n.directory.GetPropertyByID(p.PropertyID)
	if err != nil {
		return fmt.Errorf("failed to resolve property: %w", err)
	}

	typeLabel := "Property Purchase"
	if p.PaymentType == models.PaymentTypeRent {
		typeLabel = "Rent Payment"
	}
	transactionID := ""
	if p.GatewayPaymentID != nil {
		transactionID = *p.GatewayPaymentID
	}

	userSubject, userHTML, err := Render(TemplatePaymentConfirmationUser, map[string]interface{}{
		"userName":      user.FullName,
		"propertyName":  property.Title,
		"amount":        p.Amount,
		"paymentType":   typeLabel,
		"transactionId": transactionID,
	})
	if err != nil {
		return err
	}
	builderSubject, builderHTML, err := Render(TemplatePaymentNotificationBuilder, map[string]interface{}{
		"builderName":  builder.FullName,
		"propertyName": property.Title,
		"amount":       p.Amount,
		"paymentType":  typeLabel,
	})
	if err != nil {
		return err
	}

	batch := []Message{
		{To: user.Email, ToName: user.FullName, Subject: userSubject, HTML: userHTML},
		{To: builder.Email, ToName: builder.FullName, Subject: builderSubject, HTML: builderHTML},
	}
	if err := n.queue.Push(batch); err != nil {
		return fmt.Errorf("failed to queue payment emails: %w", err)
	}

	n.logger.WithFields(logrus.Fields{
		"payment_id": p.ID,
		"user":       user.Email,
		"builder":    builder.Email,
	}).Info("Queued payment emails")
	return nil
}
