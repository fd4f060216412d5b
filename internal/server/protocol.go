package server

import (
	"fmt"

	"github.com/san-kum/gyrosim/internal/dynamo"
	"github.com/san-kum/gyrosim/internal/scene"
)

// Client message types.
const (
	MsgSet    = "set"
	MsgFollow = "follow"
	MsgReset  = "reset"
	MsgResize = "resize"
)

// ClientMessage is anything a browser sends on /ws. Only the fields for its
// Type are read.
type ClientMessage struct {
	Type    string  `json:"type"`
	Name    string  `json:"name,omitempty"`
	Value   float64 `json:"value,omitempty"`
	Enabled bool    `json:"enabled,omitempty"`
	Width   int     `json:"width,omitempty"`
	Height  int     `json:"height,omitempty"`
}

type CameraMessage struct {
	Position [3]float64 `json:"position"`
	Target   [3]float64 `json:"target"`
}

// FrameMessage is broadcast to every client once per tick and served on
// /frame.
type FrameMessage struct {
	T        float64        `json:"t"`
	Particle [3]float64     `json:"particle"`
	Trail    [][3]float64   `json:"trail"`
	Camera   *CameraMessage `json:"camera"`
	Params   dynamo.Params  `json:"params"`
	Aspect   float64        `json:"aspect"`
}

func newFrameMessage(f scene.Frame, aspect float64) FrameMessage {
	msg := FrameMessage{
		T:        f.Time,
		Particle: f.Particle.Array(),
		Trail:    make([][3]float64, len(f.Trail)),
		Params:   f.Params,
		Aspect:   aspect,
	}
	for i, p := range f.Trail {
		msg.Trail[i] = p.Array()
	}
	if f.Camera != nil {
		msg.Camera = &CameraMessage{
			Position: f.Camera.Position.Array(),
			Target:   f.Camera.Target.Array(),
		}
	}
	return msg
}

// command is a validated client request, applied by the session goroutine.
type command struct {
	kind   string
	change scene.Change
	aspect float64
}

func (m ClientMessage) command() (command, error) {
	switch m.Type {
	case MsgSet:
		if m.Name == "" {
			return command{}, fmt.Errorf("set without name: %w", dynamo.ErrUnknownParam)
		}
		return command{kind: MsgSet, change: scene.Change{Name: m.Name, Value: m.Value}}, nil
	case MsgFollow:
		v := 0.0
		if m.Enabled {
			v = 1
		}
		return command{kind: MsgSet, change: scene.Change{Name: scene.NameFollow, Value: v}}, nil
	case MsgReset:
		return command{kind: MsgReset}, nil
	case MsgResize:
		if m.Width <= 0 || m.Height <= 0 {
			return command{}, fmt.Errorf("resize %dx%d: %w", m.Width, m.Height, dynamo.ErrInvalidConfig)
		}
		return command{kind: MsgResize, aspect: float64(m.Width) / float64(m.Height)}, nil
	}
	return command{}, fmt.Errorf("message type %q: %w", m.Type, dynamo.ErrInvalidConfig)
}
