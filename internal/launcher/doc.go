// Package launcher issues platform-specific game launch commands. Each
// supported platform (steam, epic, direct, none) has its own launcher; the
// Registry dispatches on the game profile's platform tag.
//
// Store-mediated platforms are fire-and-forget: the launch command asks the
// store client to start the game, and the session orchestrator discovers the
// actual game process afterwards by pattern.
package launcher
