package session

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"
)

func startTestServer(t *testing.T) *Server {
	t.Helper()
	srv := NewServer(ServerOptions{Port: 0})
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { srv.Stop() })
	return srv
}

func dial(t *testing.T, addr string) (net.Conn, *bufio.Reader) {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, bufio.NewReader(conn)
}

func readLine(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	line, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	return strings.TrimSpace(line)
}

func TestServerAssignsRolesInConnectionOrder(t *testing.T) {
	srv := startTestServer(t)

	connA, readerA := dial(t, srv.Addr())
	readLine(t, readerA) // greeting

	connA.Write([]byte("ROLE -\n"))
	if got := readLine(t, readerA); got != "INFO role X" {
		t.Fatalf("first ROLE - reply: %q", got)
	}

	connB, readerB := dial(t, srv.Addr())
	readLine(t, readerB) // greeting
	connB.Write([]byte("ROLE -\n"))
	if got := readLine(t, readerB); got != "INFO role O" {
		t.Fatalf("second ROLE - reply: %q", got)
	}
}

func TestServerRejectsUnknownCommand(t *testing.T) {
	srv := startTestServer(t)
	conn, reader := dial(t, srv.Addr())
	readLine(t, reader) // greeting

	conn.Write([]byte("FROBNICATE\n"))
	got := readLine(t, reader)
	if !strings.HasPrefix(got, "ERROR") {
		t.Fatalf("expected an ERROR reply, got %q", got)
	}
}

func TestServerGetStateReturnsStateBlock(t *testing.T) {
	srv := startTestServer(t)
	conn, reader := dial(t, srv.Addr())
	readLine(t, reader) // greeting

	conn.Write([]byte("GET_STATE\n"))
	if got := readLine(t, reader); got != "STATE" {
		t.Fatalf("expected the STATE block to start with a STATE line, got %q", got)
	}
	// Drain until END so the connection is left clean for t.Cleanup.
	for {
		line := readLine(t, reader)
		if line == "END" {
			break
		}
	}
}

func TestServerMoveOutOfTurnReturnsError(t *testing.T) {
	srv := startTestServer(t)

	connA, readerA := dial(t, srv.Addr())
	readLine(t, readerA)
	connA.Write([]byte("ROLE O\n"))
	readLine(t, readerA)

	connA.Write([]byte("MOVE a5,a4\n"))
	got := readLine(t, readerA)
	if !strings.HasPrefix(got, "ERROR") {
		t.Fatalf("expected O moving first to error, got %q", got)
	}
}
