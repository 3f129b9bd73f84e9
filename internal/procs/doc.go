// Package procs implements process-name pattern matching and the process
// supervisor: discovery through a per-OS lister, detached starts,
// termination, and native-or-fallback exit waits.
package procs
