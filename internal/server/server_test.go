package server

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/san-kum/gyrosim/internal/dynamo"
	"github.com/san-kum/gyrosim/internal/scene"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	sim := scene.New(dynamo.DefaultParams(), scene.Options{TrailCapacity: 100})
	return New(sim, Options{Addr: "127.0.0.1:0", BroadcastFPS: 60}, zaptest.NewLogger(t))
}

func decodeFrame(t *testing.T, data []byte) FrameMessage {
	t.Helper()
	var f FrameMessage
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func TestClientMessageCommand(t *testing.T) {
	tests := []struct {
		name    string
		msg     ClientMessage
		want    command
		wantErr bool
	}{
		{"set", ClientMessage{Type: MsgSet, Name: "mass", Value: 2}, command{kind: MsgSet, change: scene.Change{Name: "mass", Value: 2}}, false},
		{"follow on", ClientMessage{Type: MsgFollow, Enabled: true}, command{kind: MsgSet, change: scene.Change{Name: scene.NameFollow, Value: 1}}, false},
		{"follow off", ClientMessage{Type: MsgFollow}, command{kind: MsgSet, change: scene.Change{Name: scene.NameFollow, Value: 0}}, false},
		{"reset", ClientMessage{Type: MsgReset}, command{kind: MsgReset}, false},
		{"resize", ClientMessage{Type: MsgResize, Width: 800, Height: 400}, command{kind: MsgResize, aspect: 2}, false},
		{"resize zero", ClientMessage{Type: MsgResize, Width: 800}, command{}, true},
		{"set no name", ClientMessage{Type: MsgSet, Value: 1}, command{}, true},
		{"unknown", ClientMessage{Type: "warp"}, command{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.msg.command()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFrameMessage(t *testing.T) {
	sim := scene.New(dynamo.DefaultParams(), scene.Options{})
	sim.Tick(0.5)
	sim.SetFollow(true)

	msg := newFrameMessage(sim.Frame(), 1.5)
	assert.Equal(t, 0.5, msg.T)
	assert.Equal(t, sim.Position().Array(), msg.Particle)
	require.Len(t, msg.Trail, 1)
	require.NotNil(t, msg.Camera)
	assert.Equal(t, sim.Position().Array(), msg.Camera.Target)
	assert.Equal(t, 1.5, msg.Aspect)

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"follow":true`)

	sim.SetFollow(false)
	data, err = json.Marshal(newFrameMessage(sim.Frame(), 1))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"camera":null`)
}

func TestSessionDrainsCommandsBeforeTick(t *testing.T) {
	s := newTestServer(t).Session
	s.step(1)
	require.Equal(t, 1.0, s.sim.Time())

	require.True(t, s.Submit(command{kind: MsgSet, change: scene.Change{Name: "charge", Value: 1}}))
	require.True(t, s.Submit(command{kind: MsgSet, change: scene.Change{Name: "charge", Value: 3}}))
	require.True(t, s.Submit(command{kind: MsgResize, aspect: 2}))
	s.step(0.25)

	assert.Equal(t, 3.0, s.sim.Params().Charge, "last write wins")
	assert.Equal(t, 0.25, s.sim.Time(), "charge change restarts the trajectory")
	f := decodeFrame(t, s.Latest())
	assert.Equal(t, 2.0, f.Aspect)
	assert.Equal(t, 0.25, f.T)
}

func TestSessionRejectsBadChange(t *testing.T) {
	s := newTestServer(t).Session
	s.step(0.5)
	s.Submit(command{kind: MsgSet, change: scene.Change{Name: "spin", Value: 1}})
	s.step(0.5)
	assert.Equal(t, 1.0, s.sim.Time())
	assert.Equal(t, dynamo.DefaultParams(), s.sim.Params())
}

func TestSessionKeepsPublishingAfterOverflow(t *testing.T) {
	s := newTestServer(t).Session
	require.True(t, s.Submit(command{kind: MsgSet, change: scene.Change{Name: "vpar", Value: 1e308}}))
	require.True(t, s.Submit(command{kind: MsgSet, change: scene.Change{Name: "timescale", Value: 1e308}}))

	var prev []byte
	for i := 0; i < 5; i++ {
		s.step(0.25)
		data := s.Latest()
		require.NotNil(t, data)
		assert.NotEqual(t, string(prev), string(data), "frame %d is stale", i)
		prev = data

		f := decodeFrame(t, data)
		assert.False(t, math.IsInf(f.T, 0))
		for _, c := range f.Particle {
			assert.False(t, math.IsInf(c, 0) || math.IsNaN(c))
		}
	}
}

func TestSessionSubmitFull(t *testing.T) {
	s := newTestServer(t).Session
	for i := 0; i < commandBuffer; i++ {
		require.True(t, s.Submit(command{kind: MsgReset}))
	}
	assert.False(t, s.Submit(command{kind: MsgReset}))
}

func TestSessionDropsFramesForSlowClients(t *testing.T) {
	s := newTestServer(t).Session
	c := s.register()
	for i := 0; i < sendBuffer+3; i++ {
		s.step(0.01)
	}
	assert.Len(t, c.send, sendBuffer)

	s.unregister(c)
	s.unregister(c)
	assert.Zero(t, s.Clients())
	_, open := <-c.send
	assert.True(t, open, "buffered frames survive close")
}

func TestFrameEndpoint(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/frame")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	f := decodeFrame(t, body)
	assert.Zero(t, f.T)
	assert.Equal(t, [3]float64{}, f.Particle)
	assert.Nil(t, f.Camera)
}

func TestIndexPage(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "new WebSocket")
}

// readUntil reads frames until match returns true or the deadline passes.
func readUntil(t *testing.T, conn *websocket.Conn, match func(FrameMessage) bool) FrameMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		if f := decodeFrame(t, data); match(f) {
			return f
		}
	}
}

func TestWebSocketRoundTrip(t *testing.T) {
	// Connection goroutines can outlive the test, so no test logger here.
	sim := scene.New(dynamo.DefaultParams(), scene.Options{TrailCapacity: 100})
	s := New(sim, Options{BroadcastFPS: 60}, zap.NewNop())
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Session.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	first := readUntil(t, conn, func(FrameMessage) bool { return true })
	assert.Equal(t, 1.0, first.Params.Mass)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgSet, Name: "mass", Value: 2}))
	got := readUntil(t, conn, func(f FrameMessage) bool { return f.Params.Mass == 2 })
	assert.Equal(t, 2.0, got.Params.Mass)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgFollow, Enabled: true}))
	got = readUntil(t, conn, func(f FrameMessage) bool { return f.Camera != nil })
	assert.Equal(t, got.Particle, got.Camera.Target)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgResize, Width: 300, Height: 100}))
	readUntil(t, conn, func(f FrameMessage) bool { return f.Aspect == 3 })

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "warp"}))
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgReset}))
	readUntil(t, conn, func(f FrameMessage) bool { return len(f.Trail) <= 2 })

	assert.Equal(t, 1, s.Session.Clients())
}

func TestSessionStopsOnCancel(t *testing.T) {
	s := newTestServer(t).Session
	c := s.register()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop")
	}
	assert.Zero(t, s.Clients())
	for range c.send {
	}
}

func TestServerRunShutsDown(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
