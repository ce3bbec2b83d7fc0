package mailer

import (
	"context"
	"net"
	"testing"
	"time"

	"embroidery_shop/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// silentServer 接受连接但永远不发 SMTP 问候语
func silentServer(t *testing.T) (host, port string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	host, port, err = net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	return host, port
}

func TestSendRespectsContextDeadline(t *testing.T) {
	host, port := silentServer(t)
	m := NewSMTPMailer(config.SMTPConfig{
		Host: host,
		Port: port,
		From: "orders@example.com",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- m.Send(ctx, "customer@example.com", "subject", "body")
	}()

	// 对端挂起时发送必须在 deadline 附近返回错误，不能无限阻塞
	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Send did not return after the context deadline expired")
	}
}

func TestSendDialFailure(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{
		Host: "127.0.0.1",
		Port: "1", // 没有服务监听
		From: "orders@example.com",
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := m.Send(ctx, "customer@example.com", "subject", "body")

	assert.Error(t, err)
}
