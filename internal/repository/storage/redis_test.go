package storage

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisStorage(t *testing.T) {
	t.Run("Unresponsive server is bounded by the timeout", func(t *testing.T) {
		// Given: a listener that accepts connections and never answers
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		t.Cleanup(func() { _ = ln.Close() })

		go func() {
			var held []net.Conn
			defer func() {
				for _, conn := range held {
					_ = conn.Close()
				}
			}()

			for {
				conn, acceptErr := ln.Accept()
				if acceptErr != nil {
					return
				}
				held = append(held, conn)
			}
		}()

		// When
		start := time.Now()
		st, err := NewRedisStorage(context.Background(), ln.Addr().String(), 100*time.Millisecond)

		// Then: the PING gives up instead of hanging on the default timeouts
		require.Error(t, err)
		assert.Nil(t, st)
		assert.Contains(t, err.Error(), ln.Addr().String())
		assert.Less(t, time.Since(start), 2*time.Second)
	})

	t.Run("Canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewRedisStorage(ctx, "127.0.0.1:1", time.Second)

		require.Error(t, err)
	})
}
