package notifications

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/you/medsync/domain"
)

// SMTPServiceImpl implements domain.NotificationService over an
// authenticated SMTP submission: implicit TLS (port 465 style) or
// STARTTLS, selected by configuration.
type SMTPServiceImpl struct {
	server    string
	port      int
	useTLS    bool
	useSSL    bool
	username  string
	password  string
	fromName  string
	sender    string
	otpExpiry time.Duration
}

// SMTPConfig carries the mail transport settings.
type SMTPConfig struct {
	Server    string
	Port      int
	UseTLS    bool // STARTTLS submission
	UseSSL    bool // implicit TLS (port 465 style); wins over UseTLS
	Username  string
	Password  string
	FromName  string
	Sender    string
	OTPExpiry time.Duration
}

// NewSMTPService creates a new SMTP notification service
func NewSMTPService(cfg SMTPConfig) domain.NotificationService {
	sender := cfg.Sender
	if sender == "" {
		sender = cfg.Username
	}
	return &SMTPServiceImpl{
		server:    cfg.Server,
		port:      cfg.Port,
		useTLS:    cfg.UseTLS,
		useSSL:    cfg.UseSSL,
		username:  cfg.Username,
		password:  cfg.Password,
		fromName:  cfg.FromName,
		sender:    sender,
		otpExpiry: cfg.OTPExpiry,
	}
}

// SendOTPEmail implements domain.NotificationService
func (s *SMTPServiceImpl) SendOTPEmail(to, code string) error {
	subject := fmt.Sprintf("%s Email Verification Code", s.fromName)
	body := fmt.Sprintf(
		"Your verification code is: %s\n\n"+
			"This code expires in %d minutes.\n\n"+
			"If you didn't request this, you can safely ignore this email.",
		code, int(s.otpExpiry.Minutes()))
	return s.send(to, subject, body)
}

// SendAccountEmail implements domain.NotificationService
func (s *SMTPServiceImpl) SendAccountEmail(to, fullName, role, department, userCode string) error {
	subject := fmt.Sprintf("%s Registration Successful", s.fromName)
	lines := []string{
		fmt.Sprintf("Hi %s,", fullName),
		"",
		"Your MedSync account has been created successfully.",
	}
	if role != "" {
		lines = append(lines, fmt.Sprintf("Role: %s", role))
	}
	if department != "" {
		lines = append(lines, fmt.Sprintf("Department: %s", department))
	}
	if userCode != "" {
		lines = append(lines, fmt.Sprintf("Login ID (User Code): %s", userCode))
	}
	lines = append(lines,
		"",
		"How to login:",
		"- Use your email OR the above User Code as the identifier.",
		"- Use the password you set during registration.",
		"",
		"If you didn't create this account, please contact support immediately.",
	)
	return s.send(to, subject, strings.Join(lines, "\n"))
}

func (s *SMTPServiceImpl) send(to, subject, body string) error {
	if s.username == "" || s.password == "" {
		return domain.ErrMailNotConfigured
	}

	msg := buildMessage(s.fromHeader(), s.sender, to, subject, body)
	addr := net.JoinHostPort(s.server, strconv.Itoa(s.port))
	sasl := smtp.PlainAuth("", s.username, s.password, s.server)

	if s.useSSL {
		return s.sendImplicitTLS(addr, sasl, to, msg)
	}
	return s.sendSTARTTLS(addr, sasl, to, msg)
}

func (s *SMTPServiceImpl) fromHeader() string {
	if s.fromName != "" {
		return fmt.Sprintf("%s <%s>", s.fromName, s.sender)
	}
	return s.sender
}

func (s *SMTPServiceImpl) sendSTARTTLS(addr string, sasl smtp.Auth, to, msg string) error {
	c, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer c.Close()
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.server}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	} else if s.useTLS {
		return fmt.Errorf("smtp server %s does not offer STARTTLS", s.server)
	}
	return s.submit(c, sasl, to, msg)
}

func (s *SMTPServiceImpl) sendImplicitTLS(addr string, sasl smtp.Auth, to, msg string) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.server})
	if err != nil {
		return fmt.Errorf("smtp tls dial: %w", err)
	}
	defer conn.Close()
	c, err := smtp.NewClient(conn, s.server)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer c.Close()
	return s.submit(c, sasl, to, msg)
}

func (s *SMTPServiceImpl) submit(c *smtp.Client, sasl smtp.Auth, to, msg string) error {
	if err := c.Auth(sasl); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := c.Mail(s.sender); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	wc, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		return err
	}
	if err := wc.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func buildMessage(fromHeader, fromAddr, to, subject, body string) string {
	var sb strings.Builder
	sb.WriteString("From: " + fromHeader + "\r\n")
	sb.WriteString("Reply-To: " + fromAddr + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body + "\r\n")
	return sb.String()
}
