package cache

import (
	"fmt"

	"github.com/google/uuid"
)

// JobStatusKey includes the owner so a status entry can only be read back
// by the job's owner.
func JobStatusKey(owner string, jobID uuid.UUID) string {
	return fmt.Sprintf("job:%s:%s", owner, jobID)
}

func RateLimitKey(subject string) string {
	return fmt.Sprintf("ratelimit:%s", subject)
}
