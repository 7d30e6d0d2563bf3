package services

import (
	"bytes"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"travel-booking-server/config"
	"travel-booking-server/logger"
	"travel-booking-server/metrics"
	"travel-booking-server/models"
)

// MailService sends transactional email over SMTP. Every send in the booking
// flow is best-effort: failures are logged and counted, never propagated into
// the operation that triggered them.
type MailService struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailService creates a mail service from the loaded SMTP config.
func NewMailService() *MailService {
	smtp := config.AppConfig.SMTP
	return &MailService{
		dialer: gomail.NewDialer(smtp.Host, smtp.Port, smtp.Username, smtp.Password),
		from:   smtp.From,
	}
}

var bookingConfirmationTmpl = template.Must(template.New("booking_confirmation").Parse(`
<h2>Booking confirmed</h2>
<p>Hi {{.User.Username}},</p>
<p>Your booking for <strong>{{.Listing.Title}}</strong> ({{.Listing.Destination}}) is confirmed.</p>
<ul>
  <li>Booking date: {{.BookingDate.Format "02 Jan 2006"}}</li>
  <li>Travellers: {{len .Travellers}}</li>
  <li>Duration: {{.Listing.Duration}} day(s)</li>
</ul>
<p>Thank you for travelling with us.</p>
`))

var cancellationNoticeTmpl = template.Must(template.New("cancellation_notice").Parse(`
<h2>Booking cancelled</h2>
<p>Hi {{.User.Username}},</p>
<p>Your booking for <strong>{{.Listing.Title}}</strong> has been cancelled by our team.</p>
<p>If you have already paid, our support staff will contact you about your refund.</p>
`))

var guideAssignmentTmpl = template.Must(template.New("guide_assignment").Parse(`
<h2>Guide assigned</h2>
<p>Hi {{.Booking.User.Username}},</p>
<p>{{.Guide.Username}} will be your guide for <strong>{{.Booking.Listing.Title}}</strong>.</p>
<p>You can reach them at {{.Guide.Email}}.</p>
`))

// Send delivers a single HTML email.
func (m *MailService) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		metrics.EmailsFailed.Inc()
		return err
	}
	metrics.EmailsSent.Inc()
	return nil
}

// SendAsync fires off a send in the background, logging failures. This is the
// delivery mode for all booking-flow notifications.
func (m *MailService) SendAsync(to, subject, htmlBody string) {
	go func() {
		if err := m.Send(to, subject, htmlBody); err != nil {
			logger.Warn("email delivery failed", "to", to, "subject", subject, "error", err)
		}
	}()
}

// SendBookingConfirmation emails the booking owner after creation.
func (m *MailService) SendBookingConfirmation(booking *models.Booking) {
	body, err := renderTemplate(bookingConfirmationTmpl, booking)
	if err != nil {
		logger.Warn("failed to render confirmation email", "booking_id", booking.ID, "error", err)
		return
	}
	m.SendAsync(booking.User.Email, "Your booking is confirmed", body)
}

// SendCancellationNotice emails the booking owner before an admin delete.
func (m *MailService) SendCancellationNotice(booking *models.Booking) {
	body, err := renderTemplate(cancellationNoticeTmpl, booking)
	if err != nil {
		logger.Warn("failed to render cancellation email", "booking_id", booking.ID, "error", err)
		return
	}
	m.SendAsync(booking.User.Email, "Your booking was cancelled", body)
}

// SendGuideAssignment emails the booking owner when a guide is appointed.
func (m *MailService) SendGuideAssignment(booking *models.Booking, guide *models.User) {
	data := struct {
		Booking *models.Booking
		Guide   *models.User
	}{booking, guide}

	body, err := renderTemplate(guideAssignmentTmpl, data)
	if err != nil {
		logger.Warn("failed to render assignment email", "booking_id", booking.ID, "error", err)
		return
	}
	m.SendAsync(booking.User.Email, fmt.Sprintf("%s will guide your trip", guide.Username), body)
}

func renderTemplate(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
