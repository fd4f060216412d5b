package viz

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/harmonica"

	"github.com/san-kum/gyrosim/internal/scene"
)

// slider shows one parameter as a bar whose fill springs toward the value.
type slider struct {
	name   string
	rng    scene.Range
	value  float64
	shown  float64
	vel    float64
	spring harmonica.Spring
	bar    progress.Model
}

func newSlider(name string, value float64, fps int, from, to string) *slider {
	rng := scene.RangeOf(name)
	bar := progress.New(
		progress.WithScaledGradient(from, to),
		progress.WithoutPercentage(),
		progress.WithWidth(16),
	)
	s := &slider{
		name:   name,
		rng:    rng,
		value:  value,
		spring: harmonica.NewSpring(harmonica.FPS(fps), 8.0, 0.9),
		bar:    bar,
	}
	s.shown = s.fraction(value)
	return s
}

func (s *slider) fraction(v float64) float64 { return s.rng.Fraction(v) }

// nudge returns the value after dir key presses without applying it.
func (s *slider) nudge(dir int) float64 { return s.rng.Nudge(s.value, dir) }

func (s *slider) set(v float64) { s.value = v }

// animate advances the spring by one frame.
func (s *slider) animate() {
	s.shown, s.vel = s.spring.Update(s.shown, s.vel, s.fraction(s.value))
}

func (s *slider) settled() bool {
	return math.Abs(s.shown-s.fraction(s.value)) < 1e-3 && math.Abs(s.vel) < 1e-3
}

func (s *slider) view(active bool, st styles) string {
	label := fmt.Sprintf("%-9s", s.name)
	value := fmt.Sprintf("%7.2f", s.value)
	bar := s.bar.ViewAs(math.Max(0, math.Min(1, s.shown)))
	if active {
		return st.active.Render("› "+label) + " " + bar + " " + st.active.Render(value)
	}
	return "  " + st.label.Render(label) + " " + bar + " " + st.value.Render(value)
}
