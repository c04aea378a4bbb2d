package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	"github.com/shamcart/storefront/configs"
	"github.com/shamcart/storefront/internal/core/domain/order"
	"github.com/shamcart/storefront/internal/core/domain/user"
	"github.com/shamcart/storefront/internal/core/ports"
)

// EmailService sends transactional mail through SendGrid using HTML
// templates loaded at startup.
type EmailService struct {
	config    configs.EmailConfig
	logger    *logrus.Logger
	client    *sendgrid.Client
	templates map[string]*template.Template
}

// NewEmailService creates a new email service instance
func NewEmailService(config configs.EmailConfig, logger *logrus.Logger) (ports.EmailService, error) {
	client := sendgrid.NewSendClient(config.SendGridAPIKey)

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}

	return &EmailService{
		config:    config,
		logger:    logger,
		client:    client,
		templates: templates,
	}, nil
}

func loadTemplates() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template)

	templateDir := "templates/email"
	templateFiles := []string{
		"welcome.html",
		"verification.html",
		"password_reset.html",
		"password_reset_success.html",
		"order_confirmation.html",
	}

	for _, file := range templateFiles {
		name := file[:len(file)-len(filepath.Ext(file))]
		tmpl, err := template.ParseFiles(filepath.Join(templateDir, file))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", file, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}

func (e *EmailService) sendEmail(to, subject, htmlContent string) error {
	from := mail.NewEmail(e.config.FromName, e.config.FromEmail)
	recipient := mail.NewEmail("", to)

	message := mail.NewSingleEmail(from, subject, recipient, "", htmlContent)

	response, err := e.client.Send(message)
	if err != nil {
		if e.logger != nil {
			e.logger.WithFields(logrus.Fields{"to": to, "subject": subject}).WithError(err).Error("failed to send email")
		}
		return fmt.Errorf("failed to send email: %w", err)
	}

	if e.logger != nil {
		e.logger.WithFields(logrus.Fields{
			"to":          to,
			"subject":     subject,
			"status_code": response.StatusCode,
		}).Info("email sent")
	}
	return nil
}

func (e *EmailService) renderTemplate(templateName string, data interface{}) (string, error) {
	tmpl, exists := e.templates[templateName]
	if !exists {
		return "", fmt.Errorf("template %s not found", templateName)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}
	return buf.String(), nil
}

type welcomeEmailData struct {
	StoreName string
	FirstName string
	StoreURL  string
}

func (e *EmailService) SendWelcomeEmail(ctx context.Context, u *user.User) error {
	html, err := e.renderTemplate("welcome", welcomeEmailData{
		StoreName: e.config.StoreName,
		FirstName: u.FirstName,
		StoreURL:  e.config.BaseURL,
	})
	if err != nil {
		return err
	}
	return e.sendEmail(u.Email, fmt.Sprintf("Welcome to %s", e.config.StoreName), html)
}

type verificationEmailData struct {
	StoreName       string
	FirstName       string
	VerificationURL string
}

func (e *EmailService) SendVerificationEmail(ctx context.Context, u *user.User, token string) error {
	html, err := e.renderTemplate("verification", verificationEmailData{
		StoreName:       e.config.StoreName,
		FirstName:       u.FirstName,
		VerificationURL: fmt.Sprintf("%s/verify-email?token=%s", e.config.BaseURL, token),
	})
	if err != nil {
		return err
	}
	return e.sendEmail(u.Email, "Verify your email address", html)
}

type passwordResetEmailData struct {
	StoreName string
	FirstName string
	ResetURL  string
}

func (e *EmailService) SendPasswordResetEmail(ctx context.Context, u *user.User, token string) error {
	html, err := e.renderTemplate("password_reset", passwordResetEmailData{
		StoreName: e.config.StoreName,
		FirstName: u.FirstName,
		ResetURL:  fmt.Sprintf("%s/reset-password?token=%s", e.config.BaseURL, token),
	})
	if err != nil {
		return err
	}
	return e.sendEmail(u.Email, "Reset your password", html)
}

func (e *EmailService) SendPasswordResetSuccessEmail(ctx context.Context, u *user.User) error {
	html, err := e.renderTemplate("password_reset_success", passwordResetEmailData{
		StoreName: e.config.StoreName,
		FirstName: u.FirstName,
		ResetURL:  fmt.Sprintf("%s/login", e.config.BaseURL),
	})
	if err != nil {
		return err
	}
	return e.sendEmail(u.Email, "Your password was changed", html)
}

type orderConfirmationEmailData struct {
	StoreName string
	FirstName string
	Order     *order.Order
	OrderURL  string
}

func (e *EmailService) SendOrderConfirmationEmail(ctx context.Context, u *user.User, o *order.Order) error {
	html, err := e.renderTemplate("order_confirmation", orderConfirmationEmailData{
		StoreName: e.config.StoreName,
		FirstName: u.FirstName,
		Order:     o,
		OrderURL:  fmt.Sprintf("%s/orders/%s", e.config.BaseURL, o.ID),
	})
	if err != nil {
		return err
	}
	return e.sendEmail(u.Email, fmt.Sprintf("Order confirmation %s", o.OrderNumber), html)
}
