package auth

import (
	"fmt"
	"net/smtp"

	"review-platform/config"
)

// SendConfirmationEmail delivers the signup confirmation code in plaintext.
// The code is the only credential in this system, there is no password.
func SendConfirmationEmail(to string, code string) error {
	from := config.SMTP_FROM
	host := config.SMTP_HOST
	port := config.SMTP_PORT

	var auth smtp.Auth
	if config.SMTP_PASSWORD != "" {
		auth = smtp.PlainAuth("", from, config.SMTP_PASSWORD, host)
	}

	subject := "Confirmation code"
	body := fmt.Sprintf("%s - your confirmation code for the review platform", code)

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	return smtp.SendMail(host+":"+port, auth, from, []string{to}, message)
}
