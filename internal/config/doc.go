// Package config loads the profile file and runtime settings.
//
// Profiles (games, managed applications, OBS integration, launcher paths,
// timeouts) come from a YAML file resolved through Locate. Runtime settings
// (log level/format, config path, OBS password override) come from
// GAMEDECK_* environment variables. Load performs all pre-session
// validation: every verb, platform tag, process pattern, and application
// reference is checked here so nothing invalid ever reaches a running
// session. Loaded profiles are immutable.
package config
