// Package scene advances the particle simulation one rendered frame at a
// time and produces the snapshot every renderer draws from.
//
// A Simulation owns the parameters, the simulation clock and the trail. It is
// single-threaded: renderers call Tick from their own frame loop and feed
// user input back in as Change values.
//
//	sim := scene.New(dynamo.DefaultParams(), scene.Options{})
//	frame := sim.Tick(1.0 / 60)
//	draw(frame.Trail, frame.Particle, frame.Camera)
package scene
