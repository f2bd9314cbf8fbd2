// ABOUTME: Package doc for audio output backends
// ABOUTME: Describes available sink implementations
// Package output provides device sinks consuming playback chunks.
//
// Sink is the abstraction the playback engine streams into. Oto drives the
// system audio device through ebitengine/oto; Memory captures writes for
// tests and headless dry runs.
package output
