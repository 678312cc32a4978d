package email

import (
	"context"
	"fmt"
	"net/smtp"

	"quilltips-backend/pkg/logger"
)

type TipReceiptData struct {
	Email      string
	AuthorName string
	BookTitle  string
	Amount     string
	Currency   string
}

type WelcomeData struct {
	Email string
	Name  string
}

type EmailService interface {
	SendTipReceipt(ctx context.Context, data TipReceiptData) error
	SendWelcomeEmail(ctx context.Context, data WelcomeData) error
}

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
}

func NewSMTPEmailService(smtpHost, smtpPort, from string) EmailService {
	return &smtpEmailService{
		smtpAddr: smtpHost + ":" + smtpPort,
		smtpFrom: from,
	}
}

func (s *smtpEmailService) SendTipReceipt(ctx context.Context, data TipReceiptData) error {
	subject := "Thanks for supporting " + data.AuthorName
	forBook := ""
	if data.BookTitle != "" {
		forBook = fmt.Sprintf(" for %q", data.BookTitle)
	}
	body := fmt.Sprintf(`Hi,

Your tip of %s %s%s went through. %s appreciates your support!

This email is your receipt. No account is needed and nothing else will be sent.

Quilltips`, data.Amount, data.Currency, forBook, data.AuthorName)

	return s.send(data.Email, subject, body)
}

func (s *smtpEmailService) SendWelcomeEmail(ctx context.Context, data WelcomeData) error {
	subject := "Welcome to Quilltips"
	body := fmt.Sprintf(`Hi %s,

Your author account is ready. Set up your profile, add your books, and
print QR codes so readers can tip you straight from the page.

Quilltips`, data.Name)

	return s.send(data.Email, subject, body)
}

func (s *smtpEmailService) send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.smtpFrom, to, subject, body))

	if err := smtp.SendMail(s.smtpAddr, nil, s.smtpFrom, []string{to}, msg); err != nil {
		logger.Warn("failed to send email", map[string]interface{}{
			"to":        to,
			"smtp_addr": s.smtpAddr,
			"error":     err.Error(),
		})
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
