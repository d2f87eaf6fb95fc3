package domain

import "strings"

// User is a mirrored remote account. The natural key is Login; Email
// is a secondary lookup key used when a commit only carries an address.
type User struct {
	// ID is the store-internal surrogate identifier.
	ID int64

	// Login is the remote account name (natural key).
	Login string

	// Name is the display name, empty when the remote omits it.
	Name string

	// Company is the free-form company field.
	Company string

	// Email is the public email address, empty when hidden.
	Email string

	// Hireable reflects the remote hireable flag. Users resolved via
	// the email endpoint default to false because that endpoint does
	// not report it.
	Hireable bool

	// Bio is the profile description.
	Bio string

	// Location is the free-form location field.
	Location string

	// CreatedAt is the remote account creation time in epoch seconds,
	// zero when unknown or unparseable.
	CreatedAt int64
}

// IsEmail reports whether identifier should be resolved through the
// email lookup endpoint rather than treated as a login name.
func IsEmail(identifier string) bool {
	return strings.Contains(identifier, "@")
}
