package dedup

import "context"

// Store remembers suggestion keys that have already been posted, so a
// PR synchronize event does not repost identical comments.
type Store interface {
	Seen(ctx context.Context, key string) bool
	Mark(ctx context.Context, key string) error
}
