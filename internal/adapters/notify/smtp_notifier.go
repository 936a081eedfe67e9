package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/mikey/eco-scheduler/internal/config"
	"github.com/mikey/eco-scheduler/internal/ports"
	"go.uber.org/zap"
)

// ErrNoRecipient is returned for a message without a recipient
var ErrNoRecipient = errors.New("message has no recipient")

// TLSMode selects how the connection to the relay is secured
type TLSMode string

const (
	// TLSStartTLS upgrades a plain connection with STARTTLS and fails if the relay does not offer it
	TLSStartTLS TLSMode = "starttls"
	// TLSImplicit connects over TLS from the first byte, usually on port 465
	TLSImplicit TLSMode = "tls"
	// TLSNone sends in the clear
	TLSNone TLSMode = "none"
)

// ParseTLSMode parses a configured TLS mode; empty means starttls
func ParseTLSMode(s string) (TLSMode, error) {
	switch mode := TLSMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return TLSStartTLS, nil
	case TLSStartTLS, TLSImplicit, TLSNone:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown SMTP TLS mode %q", s)
	}
}

// SMTPNotifier delivers reminder messages through an SMTP relay
type SMTPNotifier struct {
	host      string
	port      int
	username  string
	password  string
	from      string
	tlsMode   TLSMode
	tlsConfig *tls.Config
	timeout   time.Duration
	logger    *zap.Logger
}

// NewSMTPNotifier creates a new SMTP notifier. Authentication is skipped when username is empty.
func NewSMTPNotifier(cfg config.SMTPConfig, logger *zap.Logger) (*SMTPNotifier, error) {
	mode, err := ParseTLSMode(cfg.TLS)
	if err != nil {
		return nil, err
	}
	return &SMTPNotifier{
		host:      cfg.Host,
		port:      cfg.Port,
		username:  cfg.Username,
		password:  cfg.Password,
		from:      cfg.From,
		tlsMode:   mode,
		tlsConfig: &tls.Config{ServerName: cfg.Host},
		timeout:   30 * time.Second,
		logger:    logger,
	}, nil
}

// Send delivers a single message
func (n *SMTPNotifier) Send(ctx context.Context, msg *ports.Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	data, err := buildMessage(n.from, msg, time.Now())
	if err != nil {
		return fmt.Errorf("failed to build message: %w", err)
	}

	c, stop, err := n.dial(ctx)
	if err != nil {
		return err
	}
	defer stop()
	defer c.Close()

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if n.username != "" {
		if err := c.Auth(sasl.NewPlainClient("", n.username, n.password)); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := c.Mail(n.from, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	if err := c.Rcpt(msg.To, nil); err != nil {
		return fmt.Errorf("RCPT TO failed: %w", err)
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send message data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		// the message has already been accepted
		n.logger.Warn("QUIT command failed", zap.Error(err))
	}

	n.logger.Debug("Reminder sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

// dial connects to the relay and secures the session according to the TLS mode.
// Cancelling ctx closes the connection until stop is called.
func (n *SMTPNotifier) dial(ctx context.Context) (c *smtp.Client, stop func() bool, err error) {
	addr := net.JoinHostPort(n.host, strconv.Itoa(n.port))
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	var conn net.Conn
	if n.tlsMode == TLSImplicit {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: n.tlsConfig}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	stop = context.AfterFunc(ctx, func() { conn.Close() })

	if n.tlsMode == TLSStartTLS {
		c, err = smtp.NewClientStartTLS(conn, n.tlsConfig)
		if err != nil {
			stop()
			conn.Close()
			return nil, nil, fmt.Errorf("STARTTLS failed: %w", err)
		}
	} else {
		c = smtp.NewClient(conn)
	}
	c.CommandTimeout = n.timeout
	c.SubmissionTimeout = n.timeout
	return c, stop, nil
}
