package sftp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"expense-report-service/internal/application/port"
)

type staticSource struct {
	settings Settings
}

func (s staticSource) DispatchSettings(context.Context) (Settings, error) {
	return s.settings, nil
}

func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantErr  bool
	}{
		{
			name: "fully configured",
			settings: Settings{
				Host:     "sftp.example.com",
				Username: "netsuite",
				Password: "secret",
			},
			wantErr: false,
		},
		{
			name:     "missing host",
			settings: Settings{Username: "netsuite", Password: "secret"},
			wantErr:  true,
		},
		{
			name:     "blank username",
			settings: Settings{Host: "sftp.example.com", Username: "   ", Password: "secret"},
			wantErr:  true,
		},
		{
			name:     "missing password",
			settings: Settings{Host: "sftp.example.com", Username: "netsuite"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := NewTransport(staticSource{tt.settings}, zap.NewNop())
			err := transport.Validate(context.Background())
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var cfgErr *port.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.NotContains(t, cfgErr.Error(), "secret", "credential values must not leak")
		})
	}
}

func TestUploadRefusesUnconfiguredEndpoint(t *testing.T) {
	transport := NewTransport(staticSource{Settings{}}, zap.NewNop())

	err := transport.Upload(context.Background(), "netsuite-expenses-2026-08-29.csv", []byte("payload"))

	var cfgErr *port.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestUploadHonorsCancelledContext(t *testing.T) {
	transport := NewTransport(staticSource{Settings{
		Host:     "sftp.example.com",
		Username: "netsuite",
		Password: "secret",
	}}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := transport.Upload(ctx, "netsuite-expenses-2026-08-29.csv", []byte("payload"))

	var dispErr *port.DispatchError
	require.ErrorAs(t, err, &dispErr)
	assert.Equal(t, "connect", dispErr.Op)
}
