package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/gyrosim/internal/scene"
)

const (
	commandBuffer = 64
	sendBuffer    = 4
	maxFrameGap   = 250 * time.Millisecond
	defaultAspect = 4.0 / 3.0
)

// client is one connected browser. The session writes encoded frames to
// send; a full buffer drops the frame for that client only.
type client struct {
	id   uint64
	send chan []byte
}

// Session owns the Simulation. Only the Run goroutine touches it; everything
// else talks to it through commands and reads the cached latest frame.
type Session struct {
	sim      *scene.Simulation
	commands chan command
	interval time.Duration
	now      func() time.Time
	log      *zap.Logger

	aspect float64
	last   time.Time

	mu      sync.Mutex
	clients map[uint64]*client
	nextID  uint64
	latest  []byte
}

func NewSession(sim *scene.Simulation, fps int, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	if fps <= 0 {
		fps = 30
	}
	s := &Session{
		sim:      sim,
		commands: make(chan command, commandBuffer),
		interval: time.Second / time.Duration(fps),
		now:      time.Now,
		log:      log,
		aspect:   defaultAspect,
		clients:  make(map[uint64]*client),
	}
	s.publish(sim.Frame())
	return s
}

// Run ticks until ctx is cancelled.
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	s.last = s.now()

	for {
		select {
		case <-ctx.Done():
			s.closeClients()
			return
		case <-ticker.C:
			now := s.now()
			gap := now.Sub(s.last)
			if gap > maxFrameGap {
				gap = maxFrameGap
			}
			s.last = now
			s.step(gap.Seconds())
		}
	}
}

// step applies every queued command, then advances the simulation and
// broadcasts the frame.
func (s *Session) step(elapsed float64) {
	s.drain()
	s.publish(s.sim.Tick(elapsed))
}

func (s *Session) drain() {
	for {
		select {
		case c := <-s.commands:
			s.apply(c)
		default:
			return
		}
	}
}

func (s *Session) apply(c command) {
	switch c.kind {
	case MsgSet:
		reset, err := s.sim.Apply(c.change)
		if err != nil {
			s.log.Warn("change rejected", zap.Stringer("change", c.change), zap.Error(err))
			return
		}
		s.log.Debug("change applied", zap.Stringer("change", c.change), zap.Bool("reset", reset))
	case MsgReset:
		s.sim.Reset()
		s.log.Debug("simulation reset")
	case MsgResize:
		s.aspect = c.aspect
	}
}

// Submit queues a command for the next tick. It reports false when the
// queue is full and the command was dropped.
func (s *Session) Submit(c command) bool {
	select {
	case s.commands <- c:
		return true
	default:
		s.log.Warn("command queue full, dropping", zap.String("kind", c.kind))
		return false
	}
}

func (s *Session) publish(f scene.Frame) {
	data, err := json.Marshal(newFrameMessage(f, s.aspect))
	if err != nil {
		s.log.Error("encode frame", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = data
	for _, c := range s.clients {
		select {
		case c.send <- data:
		default:
			s.log.Debug("client too slow, dropping frame", zap.Uint64("client", c.id))
		}
	}
}

// Latest returns the most recently published frame as JSON.
func (s *Session) Latest() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

func (s *Session) register() *client {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c := &client{id: s.nextID, send: make(chan []byte, sendBuffer)}
	s.clients[c.id] = c
	return c
}

func (s *Session) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c.id]; ok {
		delete(s.clients, c.id)
		close(c.send)
	}
}

func (s *Session) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.clients {
		delete(s.clients, id)
		close(c.send)
	}
}

// Clients reports the number of connected clients.
func (s *Session) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}
