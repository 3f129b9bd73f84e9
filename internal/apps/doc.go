// Package apps executes verbs against managed applications.
//
// The Registry maps each verb of the closed set to its handler and is
// validated before a session starts. The Controller dispatches one verb
// against one application, absorbing handler failures so a broken optional
// integration never stops the setup or shutdown sequence. Leases
// reference-count session starts per application, so concurrent sessions
// sharing an application coordinate instead of racing: only the release
// that drops the count to zero stops the processes.
package apps
