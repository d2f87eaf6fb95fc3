package domain

// Project is a mirrored repository. The natural key is the pair
// (owner, name); the owner user row always exists before the project
// row is inserted.
type Project struct {
	// ID is the store-internal surrogate identifier.
	ID int64

	// URL is the remote API URL of the repository.
	URL string

	// OwnerID references the owning User row.
	OwnerID int64

	// Name is the repository name.
	Name string

	// Description is the repository description, possibly empty.
	Description string

	// Language is the primary language reported by the remote.
	Language string

	// CreatedAt is the repository creation time in epoch seconds.
	CreatedAt int64
}
