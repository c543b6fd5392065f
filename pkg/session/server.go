package session

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// ServerOptions configures the line-protocol server.
type ServerOptions struct {
	Port int // TCP port to listen on
}

// DefaultServerOptions returns sensible defaults.
func DefaultServerOptions() ServerOptions {
	return ServerOptions{Port: 4590}
}

// Server accepts line-protocol connections against one shared Table:
// a listener, an accept loop spawning one handler goroutine per
// connection, and a processCommand dispatch keyed on the first token
// of each line.
type Server struct {
	table    *Table
	listener net.Listener
	options  ServerOptions

	mu      sync.Mutex
	running bool
	conns   map[string]net.Conn // client id -> connection, for STATE broadcast
}

// NewServer builds a Server hosting a fresh Table.
func NewServer(opts ServerOptions) *Server {
	return &Server{
		table:   NewTable(),
		options: opts,
		conns:   make(map[string]net.Conn),
	}
}

// Start begins listening for connections in a background goroutine.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("session: server already running")
	}

	addr := fmt.Sprintf(":%d", s.options.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("session: listen on %s: %w", addr, err)
	}

	s.listener = listener
	s.running = true
	go s.acceptLoop()
	return nil
}

// Addr returns the listener's bound address, valid only after Start
// returns successfully. Useful with ServerOptions.Port == 0 to
// discover the OS-assigned port, e.g. in tests.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop closes the listener and every open connection.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false
	for _, c := range s.conns {
		c.Close()
	}
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()
			if !running {
				return
			}
			log.Warn().Msgf("session: accept: %v", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	clientID := conn.RemoteAddr().String()

	s.mu.Lock()
	s.conns[clientID] = conn
	s.mu.Unlock()

	defer func() {
		conn.Close()
		s.table.Leave(clientID)
		s.mu.Lock()
		delete(s.conns, clientID)
		s.mu.Unlock()
	}()

	reader := bufio.NewReader(conn)
	writeLine(conn, "INFO connected, send ROLE to take a seat")

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				log.Warn().Msgf("session: read from %s: %v", clientID, err)
			}
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		reply, broadcast := s.processCommand(clientID, line)
		if reply != "" {
			writeLine(conn, reply)
		}
		if broadcast {
			s.broadcastState()
		}
	}
}

// processCommand dispatches one command line for client and returns
// the reply owed to that client plus whether the move changed shared
// state enough to warrant a STATE broadcast to everyone.
func (s *Server) processCommand(client, line string) (reply string, broadcast bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "ERROR empty command", false
	}

	switch strings.ToUpper(fields[0]) {
	case "ROLE":
		return s.handleRole(client, fields[1:]), false
	case "MOVE":
		return s.handleMove(client, fields[1:])
	case "GET_STATE":
		return s.table.StateBlock(), false
	default:
		return "ERROR unknown command " + fields[0], false
	}
}

func (s *Server) handleRole(client string, args []string) string {
	if len(args) == 0 {
		return "ERROR ROLE requires a role"
	}
	req, ok := ParseRole(args[0])
	if !ok {
		return "ERROR unknown role " + args[0]
	}
	var name, model string
	if len(args) > 1 {
		name = args[1]
	}
	if len(args) > 2 {
		model = args[2]
	}

	granted, err := s.table.Assign(client, req, name, model)
	if err != nil {
		return "ERROR " + err.Error()
	}
	return "INFO role " + granted.String()
}

func (s *Server) handleMove(client string, args []string) (string, bool) {
	if len(args) != 1 {
		return "ERROR MOVE requires exactly one move literal", false
	}
	status, err := s.table.Move(client, args[0])
	if err != nil {
		return "ERROR " + err.Error(), false
	}
	return "INFO move applied, status " + status, true
}

func (s *Server) broadcastState() {
	block := s.table.StateBlock()
	s.mu.Lock()
	conns := make([]net.Conn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		if _, err := io.WriteString(c, block); err != nil {
			log.Warn().Msgf("session: broadcast to %s: %v", c.RemoteAddr(), err)
		}
	}
}

// writeLine sends line terminated by exactly one newline. Multi-line
// replies (the STATE block) already end in "\n" from StateBlock's own
// trailing END line.
func writeLine(w io.Writer, line string) {
	if strings.HasSuffix(line, "\n") {
		io.WriteString(w, line)
		return
	}
	io.WriteString(w, line+"\n")
}
