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

package hotreload

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws://" + strings.TrimPrefix(ts.URL, "http://") + "/ws"
	conn, err := websocket.Dial(url, "", ts.URL)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func receive(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var data string
	require.NoError(t, websocket.Message.Receive(conn, &data))
	var msg Message
	require.NoError(t, json.Unmarshal([]byte(data), &msg))
	return msg
}

func waitForClients(t *testing.T, s *Server, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return s.ClientCount() == n }, 5*time.Second, 10*time.Millisecond)
}

func noReload(context.Context) Message {
	return Message{Type: "reload"}
}

func TestBroadcast(t *testing.T) {
	s := NewServer()
	ts := httptest.NewServer(s.Mux(noReload))
	defer ts.Close()

	a := dial(t, ts)
	b := dial(t, ts)
	waitForClients(t, s, 2)

	err := s.Broadcast(context.Background(), Message{Type: "reload", Files: []string{"a.ts"}})
	require.NoError(t, err)

	for _, conn := range []*websocket.Conn{a, b} {
		msg := receive(t, conn)
		assert.Equal(t, "reload", msg.Type)
		assert.Equal(t, []string{"a.ts"}, msg.Files)
	}
}

func TestBroadcast_ClosedClient(t *testing.T) {
	s := NewServer()
	ts := httptest.NewServer(s.Mux(noReload))
	defer ts.Close()

	gone := dial(t, ts)
	live := dial(t, ts)
	waitForClients(t, s, 2)

	require.NoError(t, gone.Close())
	require.NoError(t, s.Broadcast(context.Background(), map[string]string{"type": "ping"}))

	msg := receive(t, live)
	assert.Equal(t, "ping", msg.Type)

	waitForClients(t, s, 1)
}

func TestBroadcast_EncodingError(t *testing.T) {
	s := NewServer()
	err := s.Broadcast(context.Background(), map[string]any{"bad": make(chan int)})
	assert.Error(t, err)
}

func TestReload(t *testing.T) {
	s := NewServer()
	calls := 0
	reload := func(context.Context) Message {
		calls++
		return Message{Type: "reload", Files: []string{"/out/a.ts"}}
	}
	ts := httptest.NewServer(s.Mux(reload))
	defer ts.Close()

	conn := dial(t, ts)
	waitForClients(t, s, 1)

	resp, err := http.Post(ts.URL+"/reload", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body Message
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"/out/a.ts"}, body.Files)

	msg := receive(t, conn)
	assert.Equal(t, []string{"/out/a.ts"}, msg.Files)
	assert.Equal(t, 1, calls)
}

func TestReload_Error(t *testing.T) {
	s := NewServer()
	reload := func(context.Context) Message {
		return Message{Type: "error", Error: "boom"}
	}
	ts := httptest.NewServer(s.Mux(reload))
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/reload", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestReload_MethodNotAllowed(t *testing.T) {
	s := NewServer()
	ts := httptest.NewServer(s.Mux(noReload))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/reload")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", NewServer(), noReload)
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
