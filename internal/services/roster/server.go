package roster

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/roster/internal/platform/timeouts"
	"github.com/louisbranch/roster/internal/services/roster/controller"
	"github.com/louisbranch/roster/internal/services/roster/directory"
)

// Config defines the inputs for the roster server.
type Config struct {
	HTTPAddr       string
	DirectoryURL   string
	RequestTimeout time.Duration
	SessionTTL     time.Duration
	IDPolicy       controller.IDPolicy
	// Directory overrides the HTTP directory client, mainly for tests.
	Directory directory.Directory
	// OnReady is called with the page URL once the listener is bound.
	OnReady func(url string)
}

// Server hosts the roster page.
type Server struct {
	httpAddr   string
	onReady    func(string)
	httpServer *http.Server
}

// NewServer builds a configured roster server.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}

	dir := config.Directory
	if dir == nil {
		client, err := directory.NewClient(directory.Config{
			BaseURL:        config.DirectoryURL,
			RequestTimeout: config.RequestTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("directory client: %w", err)
		}
		dir = client
	}

	handler, err := NewHandler(HandlerConfig{
		Directory:  dir,
		IDPolicy:   config.IDPolicy,
		SessionTTL: config.SessionTTL,
	})
	if err != nil {
		return nil, err
	}

	return &Server{
		httpAddr: httpAddr,
		onReady:  config.OnReady,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}, nil
}

// ListenAndServe serves HTTP until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("roster server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	listener, err := net.Listen("tcp", s.httpAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpAddr, err)
	}
	pageURL := "http://" + listener.Addr().String() + "/"
	log.Printf("roster listening on %s", pageURL)
	if s.onReady != nil {
		s.onReady(pageURL)
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
