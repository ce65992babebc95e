package hashtag

import "time"

// Config carries the domain settings resolved from the application config.
type Config struct {
	Model            string
	Temperature      float32
	Prompt           string
	DefaultCount     int
	MaxCount         int
	CacheTTL         time.Duration
	HistoryLimit     int
	PromptTokenLimit int
}
