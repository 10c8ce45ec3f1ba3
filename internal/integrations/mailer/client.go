package mailer

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"github.com/astroindira/booking-service/internal/domain"
)

// Client SMTP-клиент для уведомлений о бронированиях.
// Письма best-effort: без учетных данных клиент молча пропускает
// отправку, ошибки не прерывают бизнес-операции.
type Client struct {
	host     string
	port     int
	email    string
	password string
	timeout  time.Duration
	log      Logger
}

// NewClient создает новый почтовый клиент
func NewClient(host string, port int, email, password string, timeout time.Duration, log Logger) *Client {
	return &Client{
		host:     host,
		port:     port,
		email:    email,
		password: password,
		timeout:  timeout,
		log:      log,
	}
}

// Enabled сообщает, заданы ли учетные данные SMTP
func (c *Client) Enabled() bool {
	return c.email != "" && c.password != ""
}

// BookingCreated отправляет подтверждение создания бронирования
func (c *Client) BookingCreated(b *domain.Booking) error {
	subject := "Booking Confirmation - Astrology Consultation"
	return c.send(b.Email, subject, bookingCreatedBody(b))
}

// PaymentConfirmed отправляет подтверждение успешной оплаты
func (c *Client) PaymentConfirmed(b *domain.Booking) error {
	subject := "Payment Confirmed - Astrology Consultation"
	return c.send(b.Email, subject, paymentConfirmedBody(b))
}

// BookingCancelled отправляет уведомление об отмене бронирования
func (c *Client) BookingCancelled(b *domain.Booking) error {
	subject := "Booking Cancelled - Astrology Consultation"
	return c.send(b.Email, subject, bookingCancelledBody(b))
}

func (c *Client) send(to, subject, body string) error {
	if !c.Enabled() {
		c.log.Warn("Email credentials not configured - skipping email to %s", to)
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\n", c.email) +
		fmt.Sprintf("To: %s\r\n", to) +
		fmt.Sprintf("Subject: %s\r\n", subject) +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
		body

	addr := fmt.Sprintf("%s:%d", c.host, c.port)

	conn, err := net.DialTimeout("tcp", addr, c.timeout)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %v", ErrSendFailed, addr, err)
	}

	client, err := smtp.NewClient(conn, c.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("%w: create client: %v", ErrSendFailed, err)
	}
	defer client.Quit()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: c.host}); err != nil {
			return fmt.Errorf("%w: starttls: %v", ErrSendFailed, err)
		}
	}

	auth := smtp.PlainAuth("", c.email, c.password, c.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("%w: auth: %v", ErrSendFailed, err)
	}

	if err := client.Mail(c.email); err != nil {
		return fmt.Errorf("%w: set sender: %v", ErrSendFailed, err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("%w: set recipient: %v", ErrSendFailed, err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("%w: open data writer: %v", ErrSendFailed, err)
	}
	if _, err := writer.Write([]byte(msg)); err != nil {
		return fmt.Errorf("%w: write message: %v", ErrSendFailed, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("%w: close data writer: %v", ErrSendFailed, err)
	}

	c.log.Info("Email sent to %s: %s", to, subject)
	return nil
}
