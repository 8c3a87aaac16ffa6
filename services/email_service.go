package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/fbscore/fbscore/config"
)

// Mailer is the outbound mail surface the other services depend on.
type Mailer interface {
	SendOTPEmail(email, code string) error
	SendTeamRequestResultEmail(email, teamName string, accepted bool) error
	SendOfficialRequestResultEmail(email, name string, accepted bool) error
	SendRosterInviteEmail(userEmail, teamName, playerNo string) error
	SendRosterDecisionEmail(teamEmail, userName string, accepted bool) error
	SendPlayerRemovalEmail(userEmail, teamName string) error
}

type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) SendEmail(to []string, subject string, body string) error {
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)

	msg := []byte("To: " + to[0] + "\r\n" +
		"From: " + s.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	tlsconfig := &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         s.cfg.SMTPHost,
	}

	var client *smtp.Client
	if s.cfg.SMTPPort == 465 {
		// Прямое TLS-соединение (обычно порт 465)
		conn, err := tls.Dial("tcp", addr, tlsconfig)
		if err != nil {
			return fmt.Errorf("ошибка TLS соединения: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("ошибка создания SMTP клиента: %w", err)
		}
	} else {
		// STARTTLS (обычно порт 587)
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("ошибка соединения SMTP: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsconfig); err != nil {
			client.Close()
			return fmt.Errorf("ошибка команды STARTTLS: %w", err)
		}
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("ошибка аутентификации SMTP: %w", err)
	}

	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("ошибка MAIL FROM: %w", err)
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("ошибка RCPT TO: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("ошибка команды DATA: %w", err)
	}

	_, err = w.Write(msg)
	if err != nil {
		return fmt.Errorf("ошибка записи сообщения: %w", err)
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("ошибка закрытия DATA: %w", err)
	}

	return nil
}

func (s *EmailService) GenerateEmailBody(templatePath string, data interface{}) (string, error) {
	t, err := template.ParseFiles(templatePath)
	if err != nil {
		return "", fmt.Errorf("ошибка парсинга шаблона %s: %w", templatePath, err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return "", fmt.Errorf("ошибка выполнения шаблона %s: %w", templatePath, err)
	}

	return body.String(), nil
}

func (s *EmailService) SendOTPEmail(email, code string) error {
	subject := "Your FBScore verification code"
	data := struct {
		Email string
		Code  string
	}{
		Email: email,
		Code:  code,
	}

	htmlBody, err := s.GenerateEmailBody("templates/emails/otp_email.html", data)
	if err != nil {
		return fmt.Errorf("ошибка генерации тела письма с кодом: %w", err)
	}

	return s.SendEmail([]string{email}, subject, htmlBody)
}

func (s *EmailService) SendTeamRequestResultEmail(email, teamName string, accepted bool) error {
	verdict := "rejected"
	if accepted {
		verdict = "approved"
	}
	subject := fmt.Sprintf("Your team application '%s' was %s", teamName, verdict)
	data := struct {
		Name     string
		Accepted bool
		LoginURL string
	}{
		Name:     teamName,
		Accepted: accepted,
		LoginURL: fmt.Sprintf("%s/team/signin", s.cfg.PublicURL),
	}

	htmlBody, err := s.GenerateEmailBody("templates/emails/request_result_email.html", data)
	if err != nil {
		return fmt.Errorf("ошибка генерации тела письма о заявке команды: %w", err)
	}

	return s.SendEmail([]string{email}, subject, htmlBody)
}

func (s *EmailService) SendOfficialRequestResultEmail(email, name string, accepted bool) error {
	verdict := "rejected"
	if accepted {
		verdict = "approved"
	}
	subject := fmt.Sprintf("Your match official application was %s", verdict)
	data := struct {
		Name     string
		Accepted bool
		LoginURL string
	}{
		Name:     name,
		Accepted: accepted,
		LoginURL: fmt.Sprintf("%s/matchofficial/signin", s.cfg.PublicURL),
	}

	htmlBody, err := s.GenerateEmailBody("templates/emails/request_result_email.html", data)
	if err != nil {
		return fmt.Errorf("ошибка генерации тела письма о заявке судьи: %w", err)
	}

	return s.SendEmail([]string{email}, subject, htmlBody)
}

func (s *EmailService) SendRosterInviteEmail(userEmail, teamName, playerNo string) error {
	subject := fmt.Sprintf("%s invited you to join their squad", teamName)
	data := struct {
		TeamName    string
		PlayerNo    string
		RequestsURL string
	}{
		TeamName:    teamName,
		PlayerNo:    playerNo,
		RequestsURL: fmt.Sprintf("%s/player/requests", s.cfg.PublicURL),
	}

	htmlBody, err := s.GenerateEmailBody("templates/emails/roster_invite_email.html", data)
	if err != nil {
		return fmt.Errorf("ошибка генерации тела письма-приглашения: %w", err)
	}

	return s.SendEmail([]string{userEmail}, subject, htmlBody)
}

func (s *EmailService) SendRosterDecisionEmail(teamEmail, userName string, accepted bool) error {
	verdict := "rejected"
	if accepted {
		verdict = "accepted"
	}
	subject := fmt.Sprintf("%s %s your invitation", userName, verdict)
	data := struct {
		UserName string
		Accepted bool
	}{
		UserName: userName,
		Accepted: accepted,
	}

	htmlBody, err := s.GenerateEmailBody("templates/emails/roster_decision_email.html", data)
	if err != nil {
		return fmt.Errorf("ошибка генерации тела письма о решении игрока: %w", err)
	}

	return s.SendEmail([]string{teamEmail}, subject, htmlBody)
}

func (s *EmailService) SendPlayerRemovalEmail(userEmail, teamName string) error {
	subject := fmt.Sprintf("You have been removed from %s", teamName)
	data := struct {
		TeamName string
	}{
		TeamName: teamName,
	}

	htmlBody, err := s.GenerateEmailBody("templates/emails/roster_removal_email.html", data)
	if err != nil {
		return fmt.Errorf("ошибка генерации тела письма об удалении из состава: %w", err)
	}

	return s.SendEmail([]string{userEmail}, subject, htmlBody)
}
