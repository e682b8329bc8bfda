package roster

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"
)

func TestNewServerValidatesConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config Config
	}{
		{name: "missing address", config: Config{Directory: newStubDirectory()}},
		{name: "bad directory url", config: Config{HTTPAddr: "127.0.0.1:0", DirectoryURL: "ftp://directory"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewServer(tc.config); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNewServerBuildsDirectoryClient(t *testing.T) {
	t.Parallel()

	server, err := NewServer(Config{HTTPAddr: "127.0.0.1:0", DirectoryURL: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	if server.httpServer.ReadHeaderTimeout <= 0 {
		t.Fatal("expected read header timeout")
	}
}

func TestListenAndServeUntilCancelled(t *testing.T) {
	t.Parallel()

	ready := make(chan string, 1)
	server, err := NewServer(Config{
		HTTPAddr:  "127.0.0.1:0",
		Directory: newStubDirectory(),
		OnReady:   func(url string) { ready <- url },
	})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.ListenAndServe(ctx) }()

	var pageURL string
	select {
	case pageURL = <-ready:
	case err := <-done:
		t.Fatalf("ListenAndServe() returned early: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("server never became ready")
	}

	resp, err := http.Get(pageURL + "healthz")
	if err != nil {
		t.Fatalf("GET healthz: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("healthz = %d %q", resp.StatusCode, body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestListenAndServeNilServer(t *testing.T) {
	t.Parallel()

	var server *Server
	if err := server.ListenAndServe(context.Background()); err == nil {
		t.Fatal("expected error for nil server")
	}
}

func TestListenAndServeAddressInUse(t *testing.T) {
	t.Parallel()

	ready := make(chan string, 1)
	first, err := NewServer(Config{HTTPAddr: "127.0.0.1:0", Directory: newStubDirectory(), OnReady: func(url string) { ready <- url }})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = first.ListenAndServe(ctx) }()

	var pageURL string
	select {
	case pageURL = <-ready:
	case <-time.After(2 * time.Second):
		t.Fatal("server never became ready")
	}

	addr := pageURL[len("http://") : len(pageURL)-1]
	second, err := NewServer(Config{HTTPAddr: addr, Directory: newStubDirectory()})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	if err := second.ListenAndServe(context.Background()); err == nil {
		t.Fatal("expected listen error for address in use")
	}
}
