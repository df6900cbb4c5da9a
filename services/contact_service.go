package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type ContactInput struct {
	Name    string
	Email   string
	Message string
	Captcha string
}

type ContactService struct {
	captcha CaptchaVerifier
	mailer  Mailer
}

func NewContactService(captcha CaptchaVerifier, mailer Mailer) *ContactService {
	return &ContactService{captcha: captcha, mailer: mailer}
}

// Send forwards a contact form message to the site owner.
func (s *ContactService) Send(ctx context.Context, in ContactInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" || strings.TrimSpace(in.Message) == "" || in.Captcha == "" {
		return invalid("Missing required fields")
	}
	if err := validate.Var(in.Email, "email"); err != nil {
		return invalid("Invalid email address")
	}

	if _, err := s.captcha.Verify(ctx, in.Captcha); err != nil {
		return err
	}

	return s.mailer.Send(ctx, Email{
		ReplyTo: in.Email,
		Subject: fmt.Sprintf("New Contact Form Message from %s", in.Name),
		Body:    fmt.Sprintf("Name: %s\nEmail: %s\n\nMessage:\n%s\n", in.Name, in.Email, in.Message),
	})
}
