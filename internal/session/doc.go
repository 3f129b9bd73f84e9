// Package session sequences one gaming session: set up managed
// applications, launch the game, monitor its process, and restore the
// environment on exit. The restore pass runs exactly once per session no
// matter which phase decided to stop, interrupts included.
package session
