// Package sftp implements port.ExportTransport against an SFTP file-drop
// endpoint. The connection is acquired per upload and released on every
// exit path; nothing is pooled.
package sftp

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"

	"expense-report-service/internal/application/port"
)

// Settings holds the SFTP endpoint configuration.
type Settings struct {
	Host      string
	Port      int
	Username  string
	Password  string
	RemoteDir string
	Timeout   time.Duration
}

// SettingsSource resolves the effective transport settings at call time,
// so database overrides apply to the next dispatch without a restart.
type SettingsSource interface {
	DispatchSettings(ctx context.Context) (Settings, error)
}

// Transport is the SFTP-backed export transport
type Transport struct {
	source SettingsSource
	logger *zap.Logger
}

// NewTransport creates a new Transport
func NewTransport(source SettingsSource, logger *zap.Logger) *Transport {
	return &Transport{
		source: source,
		logger: logger,
	}
}

// Validate checks the resolved settings without any network operation.
// Error messages never contain the credential value.
func (t *Transport) Validate(ctx context.Context) error {
	settings, err := t.source.DispatchSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve dispatch settings: %w", err)
	}
	return validate(settings)
}

func validate(s Settings) error {
	if strings.TrimSpace(s.Host) == "" ||
		strings.TrimSpace(s.Username) == "" ||
		strings.TrimSpace(s.Password) == "" {
		return &port.ConfigurationError{Msg: "NetSuite SFTP credentials are not fully configured."}
	}
	return nil
}

// Upload writes payload to filename under the configured remote
// directory. Any connect, authenticate or write failure comes back as a
// *port.DispatchError and leaves nothing half-written worth trusting;
// callers retry the whole batch.
func (t *Transport) Upload(ctx context.Context, filename string, payload []byte) error {
	settings, err := t.source.DispatchSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve dispatch settings: %w", err)
	}
	if err := validate(settings); err != nil {
		return err
	}

	p := settings.Port
	if p <= 0 {
		p = 22
	}
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	addr := net.JoinHostPort(strings.TrimSpace(settings.Host), strconv.Itoa(p))

	if err := ctx.Err(); err != nil {
		return &port.DispatchError{Op: "connect", Err: err}
	}

	sshConfig := &ssh.ClientConfig{
		User:            strings.TrimSpace(settings.Username),
		Auth:            []ssh.AuthMethod{ssh.Password(settings.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
	}

	conn, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		t.logger.Error("SFTP connection failed", zap.String("addr", addr), zap.Error(err))
		return &port.DispatchError{Op: "connect", Err: err}
	}
	defer conn.Close()

	client, err := sftp.NewClient(conn)
	if err != nil {
		t.logger.Error("SFTP session failed", zap.String("addr", addr), zap.Error(err))
		return &port.DispatchError{Op: "session", Err: err}
	}
	defer client.Close()

	remotePath := strings.TrimRight(settings.RemoteDir, "/") + "/" + filename
	remote, err := client.Create(remotePath)
	if err != nil {
		t.logger.Error("SFTP create failed", zap.String("path", remotePath), zap.Error(err))
		return &port.DispatchError{Op: "write", Err: err}
	}

	if _, err := remote.Write(payload); err != nil {
		_ = remote.Close()
		t.logger.Error("SFTP write failed", zap.String("path", remotePath), zap.Error(err))
		return &port.DispatchError{Op: "write", Err: err}
	}
	if err := remote.Close(); err != nil {
		return &port.DispatchError{Op: "write", Err: err}
	}

	t.logger.Info("Export payload delivered",
		zap.String("path", remotePath),
		zap.Int("bytes", len(payload)))
	return nil
}

// Verify interface compliance
var _ port.ExportTransport = (*Transport)(nil)
