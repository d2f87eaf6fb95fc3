// Package driven defines the outbound ports of the mirror engine:
// interfaces the core depends on and adapters implement. The entity
// stores expose natural-key lookups and single-row inserts over the
// backing relational store; RemoteFetcher abstracts the rate-limited
// remote API client; ConfigStore provides application configuration.
package driven
