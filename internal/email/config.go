package email

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"time"
)

type SmtpConfig struct {
	Hostname string
	Port     int
	Username string
	Password string
}

func (c SmtpConfig) IsSet() bool {
	return c.Hostname != "" && c.Port > 0
}

// VerifyConnection dials the server, upgrades with STARTTLS and
// authenticates when credentials are set
func (c SmtpConfig) VerifyConnection() error {
	addr := fmt.Sprintf("%s:%v", c.Hostname, c.Port)
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return fmt.Errorf("tcp connection failed: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, c.Hostname)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: c.Hostname}); err != nil {
			return fmt.Errorf("starttls failed: %w", err)
		}
	}
	if c.Username == "" {
		return nil
	}
	if err := client.Auth(smtp.PlainAuth("", c.Username, c.Password, c.Hostname)); err != nil {
		return fmt.Errorf("failed to auth with user[%s]: %w", c.Username, err)
	}
	return nil
}

// ParseUser parses an RFC 5322 address such as `Name <a@b.c>`
func ParseUser(address string) (User, error) {
	parsed, err := mail.ParseAddress(address)
	if err != nil {
		return User{}, fmt.Errorf("%w: address[%s]: %w", ErrorInvalidInput, address, err)
	}
	return User{Address: parsed.Address, Name: parsed.Name}, nil
}
