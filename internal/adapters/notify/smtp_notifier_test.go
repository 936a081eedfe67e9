package notify

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/eco-scheduler/internal/config"
	"github.com/mikey/eco-scheduler/internal/ports"
	"go.uber.org/zap"
)

type received struct {
	from string
	to   []string
	data []byte
	tls  bool
}

type testBackend struct {
	mu       sync.Mutex
	messages []received
}

func (b *testBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &testSession{backend: b, conn: c}, nil
}

type testSession struct {
	backend *testBackend
	conn    *smtp.Conn
	current received
}

func (s *testSession) Reset()        { s.current = received{} }
func (s *testSession) Logout() error { return nil }

func (s *testSession) Mail(from string, _ *smtp.MailOptions) error {
	s.current.from = from
	return nil
}

func (s *testSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.current.to = append(s.current.to, to)
	return nil
}

func (s *testSession) Data(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.current.data = data
	_, s.current.tls = s.conn.TLSConnectionState()
	s.backend.mu.Lock()
	s.backend.messages = append(s.backend.messages, s.current)
	s.backend.mu.Unlock()
	return nil
}

// startServer runs an in-process relay. serverTLS enables STARTTLS, and
// implicit wraps the listener in TLS from the first byte.
func startServer(t *testing.T, serverTLS *tls.Config, implicit bool) (*testBackend, string, int) {
	t.Helper()
	backend := &testBackend{}
	server := smtp.NewServer(backend)
	server.Domain = "localhost"
	server.ReadTimeout = 5 * time.Second
	server.WriteTimeout = 5 * time.Second
	if !implicit {
		server.TLSConfig = serverTLS
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	if implicit {
		ln = tls.NewListener(ln, serverTLS)
	}
	go func() { _ = server.Serve(ln) }()
	t.Cleanup(func() { server.Close() })

	host, portStr, _ := net.SplitHostPort(addr)
	port, _ := strconv.Atoi(portStr)
	return backend, host, port
}

// testCertificates returns a server TLS config for 127.0.0.1 and a pool that trusts it
func testCertificates(t *testing.T) (*tls.Config, *x509.CertPool) {
	t.Helper()
	srv := httptest.NewTLSServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	pool := x509.NewCertPool()
	pool.AddCert(srv.Certificate())
	return &tls.Config{Certificates: srv.TLS.Certificates}, pool
}

func newNotifier(t *testing.T, host string, port int, mode string, roots *x509.CertPool) *SMTPNotifier {
	t.Helper()
	n, err := NewSMTPNotifier(config.SMTPConfig{
		Host: host,
		Port: port,
		From: "reminders@example.com",
		TLS:  mode,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSMTPNotifier failed: %v", err)
	}
	n.tlsConfig.RootCAs = roots
	return n
}

func TestSMTPNotifier_Send(t *testing.T) {
	backend, host, port := startServer(t, nil, false)
	notifier := newNotifier(t, host, port, "none", nil)

	err := notifier.Send(context.Background(), &ports.Message{
		To:       "ann@example.com",
		Subject:  "Reminder: waste disposal scheduled today",
		TextBody: "Dispose of: Batteries",
		HTMLBody: "<p>Dispose of: <strong>Batteries</strong></p>",
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()
	if len(backend.messages) != 1 {
		t.Fatalf("server received %d messages, want 1", len(backend.messages))
	}
	got := backend.messages[0]
	if got.from != "reminders@example.com" || len(got.to) != 1 || got.to[0] != "ann@example.com" {
		t.Errorf("envelope = %s -> %v", got.from, got.to)
	}

	msg, err := mail.ReadMessage(strings.NewReader(string(got.data)))
	if err != nil {
		t.Fatalf("parse message: %v", err)
	}
	if subject, _ := new(mime.WordDecoder).DecodeHeader(msg.Header.Get("Subject")); subject != "Reminder: waste disposal scheduled today" {
		t.Errorf("Subject = %q", subject)
	}

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/alternative" {
		t.Fatalf("Content-Type = %q", msg.Header.Get("Content-Type"))
	}
	mr := multipart.NewReader(msg.Body, params["boundary"])
	var types []string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read part: %v", err)
		}
		types = append(types, part.Header.Get("Content-Type"))
		body, _ := io.ReadAll(part)
		if !strings.Contains(string(body), "Batteries") {
			t.Errorf("part %s missing item: %q", part.Header.Get("Content-Type"), body)
		}
	}
	if len(types) != 2 {
		t.Errorf("parts = %v, want text and html", types)
	}
	if got.tls {
		t.Error("plain delivery unexpectedly used TLS")
	}
}

func TestSMTPNotifier_TLSModes(t *testing.T) {
	serverTLS, roots := testCertificates(t)

	tests := []struct {
		name     string
		mode     string
		implicit bool
	}{
		{name: "starttls", mode: "starttls"},
		{name: "default is starttls", mode: ""},
		{name: "implicit tls", mode: "tls", implicit: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, host, port := startServer(t, serverTLS, tt.implicit)
			notifier := newNotifier(t, host, port, tt.mode, roots)

			err := notifier.Send(context.Background(), &ports.Message{To: "ann@example.com", TextBody: "Batteries"})
			if err != nil {
				t.Fatalf("Send failed: %v", err)
			}

			backend.mu.Lock()
			defer backend.mu.Unlock()
			if len(backend.messages) != 1 || !backend.messages[0].tls {
				t.Fatalf("messages = %+v, want one delivered over TLS", backend.messages)
			}
		})
	}
}

func TestSMTPNotifier_StartTLSRequired(t *testing.T) {
	backend, host, port := startServer(t, nil, false)
	notifier := newNotifier(t, host, port, "starttls", nil)

	err := notifier.Send(context.Background(), &ports.Message{To: "ann@example.com", TextBody: "x"})
	if err == nil || !strings.Contains(err.Error(), "STARTTLS") {
		t.Fatalf("err = %v, want a STARTTLS failure", err)
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()
	if len(backend.messages) != 0 {
		t.Errorf("relay without STARTTLS received %d messages in the clear", len(backend.messages))
	}
}

func TestSMTPNotifier_UntrustedCertificate(t *testing.T) {
	serverTLS, _ := testCertificates(t)
	_, host, port := startServer(t, serverTLS, false)
	notifier := newNotifier(t, host, port, "starttls", x509.NewCertPool())

	if err := notifier.Send(context.Background(), &ports.Message{To: "ann@example.com", TextBody: "x"}); err == nil {
		t.Error("expected a certificate verification error")
	}
}

func TestParseTLSMode(t *testing.T) {
	if _, err := NewSMTPNotifier(config.SMTPConfig{TLS: "ssl"}, zap.NewNop()); err == nil {
		t.Error("expected an error for an unknown TLS mode")
	}
	if mode, err := ParseTLSMode(" STARTTLS "); err != nil || mode != TLSStartTLS {
		t.Errorf("ParseTLSMode = %q, %v", mode, err)
	}
}

func TestSMTPNotifier_Errors(t *testing.T) {
	notifier := newNotifier(t, "127.0.0.1", 1, "none", nil)
	if err := notifier.Send(context.Background(), &ports.Message{}); !errors.Is(err, ErrNoRecipient) {
		t.Errorf("err = %v, want ErrNoRecipient", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().(*net.TCPAddr)
	ln.Close()

	notifier = newNotifier(t, "127.0.0.1", addr.Port, "none", nil)
	if err := notifier.Send(context.Background(), &ports.Message{To: "a@b.c", TextBody: "x"}); err == nil {
		t.Error("expected a connection error")
	}
}
