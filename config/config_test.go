package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5250", cfg.Server.Port)
	assert.Equal(t, "INR", cfg.Razorpay.Currency)
	assert.Equal(t, 10, cfg.OTP.TTLMinutes)
	assert.Equal(t, 24, cfg.Scheduler.PendingPaymentMaxAgeHours)
	assert.Equal(t, 3, cfg.Scheduler.ReminderLeadDays)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_abc")
	t.Setenv("OTP_TTL_MINUTES", "5")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "rzp_test_abc", cfg.Razorpay.KeyID)
	assert.Equal(t, 5, cfg.OTP.TTLMinutes)
}
