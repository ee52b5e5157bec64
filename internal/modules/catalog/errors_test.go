package catalog

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/georgemunganga/ustaz-catalog/internal/httpx"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

func TestMongoError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		unavailable bool
	}{
		{"deadline", context.DeadlineExceeded, true},
		{"client disconnected", mongo.ErrClientDisconnected, true},
		{"server selection", topology.ServerSelectionError{Wrapped: errors.New("connection refused")}, true},
		{"duplicate key", errors.New("E11000 duplicate key error"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mongoError("failed to list products", tt.err)
			assert.Equal(t, tt.unavailable, errors.Is(err, httpx.ErrUnavailable))
			assert.ErrorContains(t, err, "failed to list products")
		})
	}
}

func TestSQLError(t *testing.T) {
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	tests := []struct {
		name        string
		err         error
		unavailable bool
	}{
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), true},
		{"bad conn", driver.ErrBadConn, true},
		{"conn done", sql.ErrConnDone, true},
		{"dial refused", refused, true},
		{"syntax", errors.New(`pq: syntax error at or near "FROM"`), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sqlError("failed to query products", tt.err)
			assert.Equal(t, tt.unavailable, errors.Is(err, httpx.ErrUnavailable))
			assert.Equal(t, tt.unavailable, httpx.Status(err) == 503)
		})
	}
}
