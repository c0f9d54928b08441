package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// Server configuration
	Server struct {
		Port   string `env:"SERVER_PORT" envDefault:"5250"`
		DBPath string `env:"DB_PATH" envDefault:"database/buildex.db"`
	}

	// Razorpay gateway configuration
	Razorpay struct {
		KeyID     string `env:"RAZORPAY_KEY_ID"`
		KeySecret string `env:"RAZORPAY_KEY_SECRET"`

		// Currency passed to the checkout widget
		Currency string `env:"RAZORPAY_CURRENCY" envDefault:"INR"`
	}

	// Email delivery configuration
	Email struct {
		SendGridAPIKey string `env:"SENDGRID_API_KEY"`
		FromAddress    string `env:"EMAIL_FROM" envDefault:"noreply@buildex.example.com"`
		FromName       string `env:"EMAIL_FROM_NAME" envDefault:"BuildEx"`
	}

	// Auth configuration
	Auth struct {
		JWTSecret string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`

		// Token lifetime in hours
		TokenTTL int `env:"JWT_TTL_HOURS" envDefault:"72"`
	}

	// OTP configuration
	OTP struct {
		// Time a one-time code stays valid, in minutes
		TTLMinutes int `env:"OTP_TTL_MINUTES" envDefault:"10"`
	}

	// Scheduler configuration
	Scheduler struct {
		// Cron spec for the rent-due reminder job
		RentReminders string `env:"CRON_RENT_REMINDERS" envDefault:"0 9 * * *"`

		// Cron spec for the abandoned-payment expiry sweep
		ExpirePendingPayments string `env:"CRON_EXPIRE_PENDING" envDefault:"30 * * * *"`

		// Days before the due date at which rent reminders go out
		ReminderLeadDays int `env:"RENT_REMINDER_LEAD_DAYS" envDefault:"3"`

		// Hours a payment may stay pending before the sweep expires it
		PendingPaymentMaxAgeHours int `env:"PENDING_PAYMENT_MAX_AGE_HOURS" envDefault:"24"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
