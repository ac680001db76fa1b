package worker

import "ai-patch-suggester/internal/config"

func NewQueue(cfg *config.Config) Queue {

	if cfg.QueueType == "redis" {
		return NewRedisQueue(
			cfg.RedisAddr,
			"patch_suggester_jobs",
		)
	}

	return NewMemoryQueue(100)
}
