// Package main hosts the admtool CLI entrypoint and command graph.
//
// The Cobra command tree exposes the admkit packages to the terminal:
// inspecting and re-serialising ADM documents, ingesting serial ADM frames
// into the flow store, and configuration scaffolding. It centralizes
// configuration resolution and structured logging setup so subcommands can
// focus on output.
//
// Keep this package lean: new behaviour belongs in the internal packages
// first and is surfaced here through dedicated commands or flags.
package main
