// Package server renders the simulation in a browser. One session goroutine
// owns the simulation and broadcasts JSON frames over WebSocket; clients send
// parameter changes back on the same connection.
package server

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/san-kum/gyrosim/internal/scene"
)

//go:embed static
var staticFiles embed.FS

const (
	writeWait       = 2 * time.Second
	maxMessageSize  = 4096
	shutdownTimeout = 3 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Options struct {
	Addr         string
	BroadcastFPS int
}

type Server struct {
	Session *Session
	opts    Options
	log     *zap.Logger
}

func New(sim *scene.Simulation, opts Options, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		Session: NewSession(sim, opts.BroadcastFPS, log),
		opts:    opts,
		log:     log,
	}
}

// Handler serves the page on /, the latest frame on /frame and the live
// stream on /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	static, _ := fs.Sub(staticFiles, "static")
	mux.Handle("GET /", http.FileServerFS(static))
	mux.HandleFunc("GET /frame", s.handleFrame)
	mux.HandleFunc("GET /ws", s.handleWS)
	return mux
}

// Run serves until ctx is cancelled, then shuts the listener down.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.opts.Addr, Handler: s.Handler()}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Session.Run(ctx)
	}()

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.opts.Addr))
		errc <- srv.ListenAndServe()
	}()

	var err error
	select {
	case <-ctx.Done():
		shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stop()
		err = srv.Shutdown(shutdownCtx)
	case err = <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	}
	cancel()
	<-done
	s.log.Info("server stopped")
	return err
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(s.Session.Latest())
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", zap.Error(err))
		return
	}

	c := s.Session.register()
	log := s.log.With(zap.Uint64("client", c.id), zap.String("remote", r.RemoteAddr))
	log.Info("client connected")

	go s.writePump(conn, c, log)

	defer func() {
		s.Session.unregister(c)
		conn.Close()
		log.Info("client disconnected")
	}()

	conn.SetReadLimit(maxMessageSize)
	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("read failed", zap.Error(err))
			}
			return
		}
		cmd, err := msg.command()
		if err != nil {
			log.Warn("bad message", zap.Error(err))
			continue
		}
		s.Session.Submit(cmd)
	}
}

func (s *Server) writePump(conn *websocket.Conn, c *client, log *zap.Logger) {
	for data := range c.send {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Warn("write failed", zap.Error(err))
			conn.Close()
			return
		}
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
