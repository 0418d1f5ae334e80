package server

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mwheeler/sessiondb/internal/proto"
)

const DefaultPort = "7022"

type CommandHandler func(args []string) proto.Value

type Client struct {
	conn       net.Conn
	writer     *bufio.Writer
	parser     *proto.Parser
	serializer *proto.Serializer
	server     *Server
	mu         sync.Mutex
}

type Server struct {
	listener net.Listener
	clients  map[net.Conn]*Client
	mu       sync.RWMutex
	handlers map[string]CommandHandler
	running  bool
	wg       sync.WaitGroup
	log      *zap.Logger
}

func NewServer(log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		clients:  make(map[net.Conn]*Client),
		handlers: make(map[string]CommandHandler),
		log:      log,
	}
}

func (s *Server) RegisterCommand(name string, handler CommandHandler) {
	s.handlers[strings.ToUpper(name)] = handler
}

func (s *Server) GetHandler(name string) CommandHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handlers[strings.ToUpper(name)]
}

func (s *Server) Start(port string) error {
	if port == "" {
		port = DefaultPort
	}

	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to bind to port %s: %w", port, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.running = true
	s.mu.Unlock()

	s.log.Info("listening", zap.String("port", port))

	for s.isRunning() {
		conn, err := listener.Accept()
		if err != nil {
			if s.isRunning() {
				s.log.Error("accept failed", zap.Error(err))
			}
			continue
		}

		s.wg.Add(1)
		go s.handleClient(conn)
	}

	return nil
}

func (s *Server) isRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false

	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	for conn := range s.clients {
		conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("stopped")
	return err
}

func (s *Server) handleClient(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	writer := bufio.NewWriter(conn)
	client := &Client{
		conn:       conn,
		writer:     writer,
		parser:     proto.NewParser(conn),
		serializer: proto.NewSerializer(writer),
		server:     s,
	}

	s.mu.Lock()
	s.clients[conn] = client
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
	}()

	addr := conn.RemoteAddr().String()
	s.log.Info("client connected", zap.String("addr", addr))

	for {
		cmd, err := client.parser.Parse()
		if err != nil {
			if err == io.EOF {
				s.log.Info("client disconnected", zap.String("addr", addr))
				return
			}
			s.log.Warn("protocol error",
				zap.String("addr", addr),
				zap.Error(err))

			client.writeResponse(proto.ErrorValue("ERR protocol error"))
			return
		}

		response := s.dispatch(cmd)

		if err := client.writeResponse(response); err != nil {
			s.log.Warn("write failed",
				zap.String("addr", addr),
				zap.Error(err))
			return
		}
	}
}

func (s *Server) dispatch(cmd proto.Command) proto.Value {
	handler := s.GetHandler(cmd.Name)
	if handler == nil {
		return proto.ErrorValue(fmt.Sprintf("ERR unknown command '%s'", strings.ToLower(cmd.Name)))
	}
	return handler(cmd.Args)
}

func (c *Client) writeResponse(v proto.Value) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.serializer.Serialize(v); err != nil {
		return err
	}
	return c.writer.Flush()
}
