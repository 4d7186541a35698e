// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the session lifecycle: load the session
// files, publish the source spectra, apply every derived equation through an
// editor session and report the outcomes. It is decoupled from any specific
// entrypoint like a CLI.
package app
