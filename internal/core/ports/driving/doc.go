// Package driving defines the inbound ports of the mirror engine:
// the interfaces through which the CLI drives the core services.
package driving
