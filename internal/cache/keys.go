package cache

import "fmt"

func JobKey(jobID string) string {
	return fmt.Sprintf("job:%s", jobID)
}

func RateLimitKey(clientKey string) string {
	return fmt.Sprintf("ratelimit:%s", clientKey)
}
