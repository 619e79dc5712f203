package a

import "github.com/google/uuid"

// UUID returns a new random UUIDv7 as a string, the same shape as the ids the Service hands out.
func UUID() string {
	return uuid.Must(uuid.NewV7()).String()
}
