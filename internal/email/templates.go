package email

import "fmt"

// Template names accepted by Render.
const (
	TemplatePaymentConfirmationUser    = "paymentConfirmationUser"
	TemplatePaymentNotificationBuilder = "paymentNotificationBuilder"
	TemplateRentReminder               = "rentReminder"
	TemplateOTP                        = "otp"
	TemplateWelcome                    = "welcome"
	TemplateEnquiryReceived            = "enquiryReceived"
)

type rendered struct {
	subject string
	html    string
}

var templates = map[string]func(data map[string]interface{}) rendered{
	TemplatePaymentConfirmationUser: func(data map[string]interface{}) rendered {
		return rendered{
			subject: "Payment Confirmation - BuildEx",
			html: fmt.Sprintf(`
				<h2>Payment Successful</h2>
				<p>Hi %v,</p>
				<p>Your payment has been successfully processed.</p>
				<p><strong>Property:</strong> %v</p>
				<p><strong>Amount:</strong> ₹%v</p>
				<p><strong>Payment Type:</strong> %v</p>
				<p><strong>Transaction ID:</strong> %v</p>`,
				data["userName"], data["propertyName"], data["amount"], data["paymentType"], data["transactionId"]),
		}
	},
	TemplatePaymentNotificationBuilder: func(data map[string]interface{}) rendered {
		return rendered{
			subject: "Payment Received - BuildEx",
			html: fmt.Sprintf(`
				<h2>New Payment Received</h2>
				<p>Hi %v,</p>
				<p>You have received a new payment for your property.</p>
				<p><strong>Property:</strong> %v</p>
				<p><strong>Amount:</strong> ₹%v</p>
				<p><strong>Payment Type:</strong> %v</p>`,
				data["builderName"], data["propertyName"], data["amount"], data["paymentType"]),
		}
	},
	TemplateRentReminder: func(data map[string]interface{}) rendered {
		return rendered{
			subject: "Rent Payment Reminder - BuildEx",
			html: fmt.Sprintf(`
				<h2>Rent Due Soon</h2>
				<p>Hi %v,</p>
				<p>This is a friendly reminder that your rent payment is due soon.</p>
				<p><strong>Property:</strong> %v</p>
				<p><strong>Monthly Rent:</strong> ₹%v</p>
				<p><strong>Due Date:</strong> %v</p>
				<p>Please make your payment before the due date.</p>`,
				data["userName"], data["propertyName"], data["amount"], data["dueDate"]),
		}
	},
	TemplateOTP: func(data map[string]interface{}) rendered {
		return rendered{
			subject: "BuildEx Registration OTP",
			html: fmt.Sprintf(`
				<h2>Verify Your Account</h2>
				<p>Your OTP for BuildEx registration is: <strong>%v</strong></p>
				<p>It is valid for %v minutes.</p>`,
				data["otp"], data["ttlMinutes"]),
		}
	},
	TemplateWelcome: func(data map[string]interface{}) rendered {
		return rendered{
			subject: "Welcome to BuildEx",
			html: fmt.Sprintf(`
				<h2>Welcome, %v!</h2>
				<p>Your account is ready. With BuildEx you can:</p>
				<ul>
					<li>Browse verified property listings</li>
					<li>Buy or rent with secure payments</li>
					<li>Track your enquiries and rent requests</li>
				</ul>`,
				data["userName"]),
		}
	},
	TemplateEnquiryReceived: func(data map[string]interface{}) rendered {
		return rendered{
			subject: "New Enquiry - BuildEx",
			html: fmt.Sprintf(`
				<h2>New Enquiry</h2>
				<p>Hi %v,</p>
				<p>%v sent an enquiry about <strong>%v</strong>:</p>
				<blockquote>%v</blockquote>`,
				data["builderName"], data["userName"], data["propertyName"], data["message"]),
		}
	},
}

// Render produces the subject and HTML body for a named template. Templates
// are opaque to callers; unknown names are an error.
func Render(templateName string, data map[string]interface{}) (subject, html string, err error) {
	tmpl, ok := templates[templateName]
	if !ok {
		return "", "", fmt.Errorf("unknown email template: %s", templateName)
	}
	r := tmpl(data)
	return r.subject, r.html, nil
}
