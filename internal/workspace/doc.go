// Package workspace provides the data-collection service the arithmetic core
// reads candidate spectra from and publishes derived spectra to.
//
// The core never owns this service. It depends on the Collection interface;
// Memory is the in-process implementation used by the CLI and tests, and
// Mirror decorates any Collection to forward add/remove events to a remote
// socket.io hub.
package workspace
