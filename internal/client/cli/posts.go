package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/communitas/internal/client/cache"
	"github.com/iudanet/communitas/internal/client/communities"
	"github.com/iudanet/communitas/pkg/api"
)

// RunPosts показывает ленту сообщества. В режиме follow лента
// автообновляется каждые 30 секунд и по внешним сигналам (фокус,
// восстановление сети) до прерывания.
func (c *Cli) RunPosts(ctx context.Context, slug string, follow bool) error {
	c.attachSession(ctx)

	res := c.svc.Posts(slug, 1, defaultPageLimit)

	entry, err := res.Get(ctx)
	if err != nil && !entry.HasValue() {
		return fmt.Errorf("failed to load posts for %s: %w", slug, err)
	}
	c.printPosts(entry)

	if !follow {
		return nil
	}

	c.io.Printf("\nFollowing %s, refreshing every %s. Press Ctrl+C to stop.\n",
		slug, communities.PostsRefreshInterval)

	lastVersion := entry.Version
	cancel := c.store.Subscribe(res.Key(), func(e cache.Entry) {
		// IsValidating-переключения не печатаем, только новые значения
		if e.IsValidating || e.Version == lastVersion {
			return
		}
		lastVersion = e.Version
		if e.Err != nil {
			c.io.Printf("⚠️  Refresh failed: %v\n", e.Err)
			return
		}
		c.io.Println()
		c.printPosts(e)
	})
	defer cancel()

	res.Run(ctx)
	return nil
}

func (c *Cli) printPosts(entry cache.Entry) {
	list, _ := entry.Value.(*api.PostListResponse)
	if list == nil || len(list.Posts) == 0 {
		c.io.Println("No posts yet.")
		return
	}

	for _, post := range list.Posts {
		c.io.Printf("[%s] %s\n", post.CreatedAt.Format("2006-01-02 15:04"), post.Title)
		if post.Body != "" {
			c.io.Printf("    %s\n", post.Body)
		}
	}
	c.io.Printf("\nShowing %d of %d post(s), refreshed %s\n",
		len(list.Posts), list.Total, entry.LastFetchedAt.Format("15:04:05"))
}
