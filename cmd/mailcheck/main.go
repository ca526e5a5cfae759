// cmd/mailcheck/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/config"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/email"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/logger"
)

func main() {
	to := flag.String("to", "", "recipient of the test email")
	dialOnly := flag.Bool("dial-only", false, "only check the SMTP connection")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := logger.Setup(cfg)

	emailService := email.NewEmailService(cfg)
	if !emailService.Enabled() {
		log.Fatal("EMAIL_PROVIDER is not set; nothing to check")
	}

	if cfg.Email.Provider == email.ProviderSMTP {
		if err := emailService.TestSMTPConnection(); err != nil {
			log.Fatalf("SMTP connection failed: %v", err)
		}
		log.WithField("host", cfg.Email.SMTPHost).Info("SMTP connection ok")
		if *dialOnly {
			return
		}
	}

	if *to == "" {
		log.Fatal("-to is required to send a test email")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	testEmail := &email.Email{
		To:      []string{*to},
		Subject: fmt.Sprintf("Test email from %s", cfg.Store.Name),
		HTMLContent: fmt.Sprintf("<h1>Email is working</h1><p>%s can deliver invoices through %s.</p>",
			cfg.Store.Name, cfg.Email.Provider),
		Type: email.EmailTypeTest,
	}

	if err := emailService.SendEmail(ctx, testEmail); err != nil {
		log.Fatalf("Send failed: %v", err)
	}

	log.WithFields(logrus.Fields{
		"provider": cfg.Email.Provider,
		"to":       *to,
	}).Info("test email sent")
}
