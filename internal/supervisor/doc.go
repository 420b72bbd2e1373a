// Package supervisor implements the development-mode process supervisor
// behind the devloop binary.
//
// Two loops cooperate: a Watcher that polls the dependency descriptor
// files for drift and reinstalls dependencies when they change, and a
// Supervisor run-loop that keeps exactly one instance of the managed
// server process alive, respawning it after every exit. The watcher
// never touches the child process directly; it holds only the narrow
// Restarter capability, and the run-loop's unconditional restart-on-exit
// turns a termination request into a reload.
package supervisor
