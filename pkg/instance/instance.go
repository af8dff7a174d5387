package instance

import "os"

// GetID identifies this process in logs and as the cron lock owner hint.
// BLOODBANK_INSTANCE_ID wins, then DYNO, then the hostname.
func GetID() string {
	for _, key := range []string{"BLOODBANK_INSTANCE_ID", "DYNO"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
