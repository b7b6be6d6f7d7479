package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/certquiz/internal/config"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
	}{
		{
			name: "creates connection with valid config",
			cfg: config.DatabaseConfig{
				Host:     "localhost",
				Port:     3306,
				Database: "testdb",
				Username: "testuser",
				Password: "testpass",
			},
		},
		{
			name: "creates connection with custom port and params",
			cfg: config.DatabaseConfig{
				Host:     "db.example.com",
				Port:     3307,
				Database: "certquiz",
				Username: "admin",
				Password: "secret",
				Params:   map[string]string{"charset": "utf8mb4"},
			},
		},
		{
			name: "creates connection with pool settings",
			cfg: config.DatabaseConfig{
				Host:            "localhost",
				Port:            3306,
				Database:        "testdb",
				Username:        "testuser",
				Password:        "testpass",
				MaxOpenConns:    25,
				MaxIdleConns:    5,
				ConnMaxLifetime: 300,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Open(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, got)
			defer got.Close()

			assert.Equal(t, "mysql", got.DriverName())
		})
	}
}

func TestWaitReady(t *testing.T) {
	original := retryDelay
	retryDelay = time.Millisecond
	t.Cleanup(func() {
		retryDelay = original
	})

	errDown := errors.New("connection refused")
	tests := []struct {
		name      string
		attempts  uint
		failures  int
		wantErr   bool
		wantCalls int
	}{
		{name: "ready at once", attempts: 3, failures: 0, wantCalls: 1},
		{name: "ready after retries", attempts: 3, failures: 2, wantCalls: 3},
		{name: "never ready", attempts: 2, failures: 5, wantErr: true, wantCalls: 2},
		{name: "zero attempts tries once", attempts: 0, failures: 1, wantErr: true, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WaitReady(context.Background(), "test", tt.attempts, func(context.Context) error {
				calls++
				if calls <= tt.failures {
					return errDown
				}
				return nil
			})

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr {
				assert.ErrorIs(t, err, errDown)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestWaitReady_Ping(t *testing.T) {
	original := retryDelay
	retryDelay = time.Millisecond
	t.Cleanup(func() {
		retryDelay = original
	})

	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	db := sqlx.NewDb(mockDB, "mysql")
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("server starting"))
	mock.ExpectPing()

	require.NoError(t, WaitReady(context.Background(), "mysql", 3, db.PingContext))
	assert.NoError(t, mock.ExpectationsWereMet())
}
