package mailer

import "gopkg.in/gomail.v2"

// SMTPMailer sends notification email over SMTP.
type SMTPMailer struct {
	host     string
	port     int
	from     string
	password string
}

func NewSMTPMailer(host string, port int, from, password string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, from: from, password: password}
}

// SendListingCreatedEmail notifies the poster that their listing is live.
func (m *SMTPMailer) SendListingCreatedEmail(toEmail, listingTitle string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "New Listing Created")
	msg.SetBody("text/plain", "Your listing '"+listingTitle+"' has been created successfully.")

	d := gomail.NewDialer(m.host, m.port, m.from, m.password)
	return d.DialAndSend(msg)
}
