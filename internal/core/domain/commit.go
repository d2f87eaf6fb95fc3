package domain

// shaLen is the length of a full commit hash in hex characters.
const shaLen = 40

// Commit is a mirrored commit. The natural key is SHA. LoginID
// references the user the commit was requested for; AuthorID and
// CommitterID reference the users resolved from the author and
// committer email fields of the remote payload. A zero AuthorID or
// CommitterID means the participant could not be resolved to a login
// (soft failure) and is stored as NULL.
type Commit struct {
	ID          int64
	SHA         string
	Message     string
	LoginID     int64
	AuthorID    int64
	CommitterID int64
}

// IsCommitSHA reports whether s is a full 40-character lowercase hex
// commit hash. Requests with any other shape are dropped before any
// store or remote access.
func IsCommitSHA(s string) bool {
	if len(s) != shaLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
