// Package obs implements the obs-websocket v5 remote control protocol:
// the authenticated Hello/Identify handshake, request/response correlation
// over one persistent socket, a session-scoped lazily-dialed connection
// owner, and a fire-and-forget background job dispatcher.
//
// The companion tool is always optional: every failure in this package
// degrades only the OBS integration and never aborts a game session.
package obs
