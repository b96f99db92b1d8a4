// Package process terminates headless browser process trees left behind by
// capture sessions.
package process
