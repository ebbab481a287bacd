package service

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
	"sync"

	"github.com/zopumarket/zopumarket/internal/config"

	"github.com/jordan-wright/email"
)

// EmailService sends transactional mail over SMTP. A disabled service
// swallows sends so the workers never branch on mail availability.
type EmailService struct {
	mu  sync.RWMutex
	cfg config.EmailConfig
}

// NewEmailService creates an email service.
func NewEmailService(cfg config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SetConfig swaps the SMTP settings at runtime.
func (s *EmailService) SetConfig(cfg config.EmailConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

func (s *EmailService) snapshot() config.EmailConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Enabled reports whether mail is actually delivered.
func (s *EmailService) Enabled() bool {
	cfg := s.snapshot()
	return cfg.Enabled && strings.TrimSpace(cfg.Host) != ""
}

// Send delivers one plain-text message.
func (s *EmailService) Send(to, subject, body string) error {
	cfg := s.snapshot()
	if !cfg.Enabled {
		return nil
	}
	if strings.TrimSpace(cfg.Host) == "" || strings.TrimSpace(cfg.From) == "" {
		return ErrEmailConfigInvalid
	}

	msg := email.NewEmail()
	msg.From = buildFromAddress(cfg.From, cfg.FromName)
	msg.To = []string{to}
	msg.Subject = subject
	msg.Text = []byte(body)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	if cfg.UseTLS {
		return msg.SendWithStartTLS(addr, auth, &tls.Config{ServerName: cfg.Host})
	}
	return msg.Send(addr, auth)
}

func buildFromAddress(from, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return from
	}
	return fmt.Sprintf("%s <%s>", name, from)
}

// ReferralEmailInput shapes the partner notification for a referral event.
type ReferralEmailInput struct {
	To            string
	PartnerName   string
	BuyerName     string
	OfferTitle    string
	Event         string
	ExpectedValue string
	AckDeadline   string
}

// SendReferralNotification mails a partner about a referral event.
func (s *EmailService) SendReferralNotification(input ReferralEmailInput) error {
	subject := fmt.Sprintf("ZOPUMarket: nova atualização de indicação (%s)", input.Event)
	var b strings.Builder
	fmt.Fprintf(&b, "Olá %s,\n\n", input.PartnerName)
	fmt.Fprintf(&b, "A indicação do comprador %s para a oferta %q foi atualizada: %s.\n",
		input.BuyerName, input.OfferTitle, input.Event)
	if input.ExpectedValue != "" {
		fmt.Fprintf(&b, "Valor previsto: R$ %s.\n", input.ExpectedValue)
	}
	if input.AckDeadline != "" {
		fmt.Fprintf(&b, "Prazo de confirmação: %s.\n", input.AckDeadline)
	}
	b.WriteString("\nAcesse o painel do parceiro para responder.\n")
	return s.Send(input.To, subject, b.String())
}

// SendCurationDecision mails a partner about a curation decision.
func (s *EmailService) SendCurationDecision(to, partnerName, decision string) error {
	subject := "ZOPUMarket: resultado da curadoria"
	body := fmt.Sprintf("Olá %s,\n\nSua empresa foi avaliada pela curadoria. Resultado: %s.\n", partnerName, decision)
	return s.Send(to, subject, body)
}

// SendOperatorCredentials mails freshly provisioned operator credentials.
func (s *EmailService) SendOperatorCredentials(to, partnerName, loginEmail, password string) error {
	subject := "ZOPUMarket: acesso do parceiro liberado"
	body := fmt.Sprintf(
		"Olá %s,\n\nSeu acesso ao painel do parceiro foi criado.\nLogin: %s\nSenha provisória: %s\n\nTroque a senha no primeiro acesso.\n",
		partnerName, loginEmail, password,
	)
	return s.Send(to, subject, body)
}
