// Package file implements the ConfigStore port over a TOML file in
// the ghmirror config directory. Nested tables are flattened into
// dot-notation keys on load ("mirror.urlbase") and unflattened back
// into tables on save.
package file
