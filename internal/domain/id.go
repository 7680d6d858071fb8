package domain

import "github.com/google/uuid"

// ShortIDLen is how many leading characters of an id are shown to users.
const ShortIDLen = 8

func newID() string {
	return uuid.NewString()
}

// ShortID trims an id for display. Any unique prefix of four or more
// characters is accepted back as a task reference.
func ShortID(id string) string {
	if len(id) > ShortIDLen {
		return id[:ShortIDLen]
	}
	return id
}
