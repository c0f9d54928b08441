package scheduler

import (
	"time"

	"buildex/server/config"
	"buildex/server/internal/database"
	"buildex/server/internal/email"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler runs the periodic maintenance jobs: rent-due reminder emails
// and the sweep that expires payments abandoned mid-checkout.
type Scheduler struct {
	cron   *cron.Cron
	db     *database.Database
	mail   *email.MailQueue
	cfg    *config.Config
	logger *logrus.Logger
	now    func() time.Time
}

func NewScheduler(db *database.Database, mail *email.MailQueue, cfg *config.Config, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		db:     db,
		mail:   mail,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
	s.registerJobs()
	return s
}

func (s *Scheduler) registerJobs() {
	if _, err := s.cron.AddFunc(s.cfg.Scheduler.RentReminders, s.SendRentReminders); err != nil {
		s.logger.WithError(err).Error("Failed to register rent reminder job")
	}
	if _, err := s.cron.AddFunc(s.cfg.Scheduler.ExpirePendingPayments, s.ExpirePendingPayments); err != nil {
		s.logger.WithError(err).Error("Failed to register pending payment expiry job")
	}
}

// SendRentReminders emails every tenant whose next rent payment falls inside
// the configured lead window.
func (s *Scheduler) SendRentReminders() {
	now := s.now()
	subs, err := s.db.GetSubscriptionsDueWithin(now, s.cfg.Scheduler.ReminderLeadDays)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load due rent subscriptions")
		return
	}
	if len(subs) == 0 {
		return
	}

	var batch []email.Message
	for _, sub := range subs {
		user, err := s.db.GetUserByID(sub.UserID)
		if err != nil {
			s.logger.WithError(err).WithField("user_id", sub.UserID).Warn("Skipping reminder for unknown user")
			continue
		}

		subject, html, err := email.Render(email.TemplateRentReminder, map[string]interface{}{
			"userName":     user.FullName,
			"propertyName": sub.PropertyName,
			"amount":       sub.MonthlyRent,
			"dueDate":      sub.NextPaymentDue.Format("02 Jan 2006"),
		})
		if err != nil {
			s.logger.WithError(err).Error("Failed to render rent reminder")
			continue
		}
		batch = append(batch, email.Message{
			To:      user.Email,
			ToName:  user.FullName,
			Subject: subject,
			HTML:    html,
		})
	}

	if len(batch) == 0 {
		return
	}
	if err := s.mail.Push(batch); err != nil {
		s.logger.WithError(err).Error("Failed to queue rent reminders")
		return
	}
	s.logger.WithField("count", len(batch)).Info("Queued rent reminders")
}

// ExpirePendingPayments marks payments that have sat in PENDING past the
// configured age so a later success callback cannot resurrect them.
func (s *Scheduler) ExpirePendingPayments() {
	maxAge := time.Duration(s.cfg.Scheduler.PendingPaymentMaxAgeHours) * time.Hour
	n, err := s.db.ExpirePendingPayments(s.now(), maxAge)
	if err != nil {
		s.logger.WithError(err).Error("Failed to expire pending payments")
		return
	}
	if n > 0 {
		s.logger.WithField("count", n).Info("Expired stale pending payments")
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}
