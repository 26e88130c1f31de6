// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package hotreload notifies connected websocket clients when output changes.
package hotreload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/websocket"
	"k8s.io/klog/v2"
)

// Message is the payload broadcast after a strip pass.
type Message struct {
	Type  string   `json:"type"`
	Files []string `json:"files,omitempty"`
	Error string   `json:"error,omitempty"`
}

// Server tracks connected clients and broadcasts to them.
type Server struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewServer returns a Server with no connected clients.
func NewServer() *Server {
	return &Server{clients: make(map[*websocket.Conn]struct{})}
}

// Handler returns the websocket endpoint clients connect to.
func (s *Server) Handler() http.Handler {
	return websocket.Handler(s.handle)
}

func (s *Server) handle(conn *websocket.Conn) {
	log := klog.FromContext(conn.Request().Context())

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()
	log.Info("Client connected", "remote", conn.Request().RemoteAddr)

	// Clients never send anything meaningful; block until they go away.
	_, _ = io.Copy(io.Discard, conn)

	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
	log.Info("Client disconnected", "remote", conn.Request().RemoteAddr)
}

// CloseAll disconnects every client.
func (s *Server) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.Close()
	}
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Broadcast sends payload as JSON to every connected client. Failing to reach
// one client is logged and does not stop delivery to the others.
func (s *Server) Broadcast(ctx context.Context, payload any) error {
	log := klog.FromContext(ctx)

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error encoding payload: %w", err)
	}

	s.mu.Lock()
	clients := make([]*websocket.Conn, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		if err := websocket.Message.Send(c, string(data)); err != nil {
			log.Error(err, "Failed to send to client", "remote", c.Request().RemoteAddr)
		}
	}
	return nil
}

// ReloadFunc runs a pass and returns the message to broadcast.
type ReloadFunc func(ctx context.Context) Message

// Mux returns the HTTP routes: the websocket endpoint at /ws and POST /reload,
// which runs reload and broadcasts its result. Reloads never overlap.
func (s *Server) Mux(reload ReloadFunc) *http.ServeMux {
	var reloadMu sync.Mutex

	mux := http.NewServeMux()
	mux.Handle("/ws", s.Handler())
	mux.HandleFunc("/reload", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		reloadMu.Lock()
		msg := reload(r.Context())
		reloadMu.Unlock()

		if err := s.Broadcast(r.Context(), msg); err != nil {
			klog.FromContext(r.Context()).Error(err, "Failed to broadcast")
		}

		w.Header().Set("Content-Type", "application/json")
		if msg.Error != "" {
			w.WriteHeader(http.StatusInternalServerError)
		}
		_ = json.NewEncoder(w).Encode(msg)
	})
	return mux
}

// Serve listens on addr until ctx is done.
func Serve(ctx context.Context, addr string, s *Server, reload ReloadFunc) error {
	log := klog.FromContext(ctx)

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := &http.Server{
		Handler:           s.Mux(reload),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	log.Info("Hot reload server listening", "addr", lis.Addr().String())

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		// Websocket connections are hijacked, so Shutdown does not close them.
		s.CloseAll()
	}()

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
