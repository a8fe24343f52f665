package base

import (
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/netfabrik/resdir/rpc/common"
)

// deadConn is a connection whose writes fail immediately and whose reads
// block until the connection is closed.
type deadConn struct {
	closed chan struct{}
}

func (c *deadConn) Read(p []byte) (int, error) {
	<-c.closed
	return 0, io.EOF
}

func (c *deadConn) Write(p []byte) (int, error) {
	return 0, errors.New("wire down")
}

func (c *deadConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
	return nil
}

func (c *deadConn) LocalAddr() net.Addr                { return &net.UnixAddr{Name: "dead", Net: "unix"} }
func (c *deadConn) RemoteAddr() net.Addr               { return &net.UnixAddr{Name: "dead", Net: "unix"} }
func (c *deadConn) SetDeadline(t time.Time) error      { return nil }
func (c *deadConn) SetReadDeadline(t time.Time) error  { return nil }
func (c *deadConn) SetWriteDeadline(t time.Time) error { return nil }

// deadConnector hands out deadConns, so every send attempt fails fast and
// only the retry logic contributes to the elapsed time.
type deadConnector struct{}

func (deadConnector) Connect(endpoint string) (net.Conn, error) {
	return &deadConn{closed: make(chan struct{})}, nil
}

func (deadConnector) GetName() string { return "dead" }

func (deadConnector) UpgradeConnection(conn net.Conn, config common.ClientConfig) error {
	return nil
}

// The backoff sleeps between attempts, never after the last one: with
// four attempts the waits are 50+100+200 ms (plus jitter), not 50+100+
// 200+400. The threshold sits between the two.
func TestSendNoBackoffAfterFinalAttempt(t *testing.T) {
	tr := NewBaseClientTransport(deadConnector{})

	config := common.ClientConfig{
		TimeoutSecond: 1,
		Transport: common.ClientTransportConfig{
			Endpoints:  []string{"dead"},
			RetryCount: 4,
		},
	}
	if err := tr.Connect(config); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer tr.Close()

	start := time.Now()
	_, err := tr.Send(1, []byte("ping"))
	elapsed := time.Since(start)

	if err == nil {
		t.Fatalf("Send over a dead wire succeeded")
	}
	if elapsed > 600*time.Millisecond {
		t.Errorf("Send took %s; the failed final attempt must not be followed by a backoff sleep", elapsed)
	}
}
