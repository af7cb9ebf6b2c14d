package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/communitas/internal/client/cache"
	"github.com/iudanet/communitas/pkg/api"
)

// Ключ записи кэша ленты новостей
const newsKey = "news"

func (c *Cli) newsResource() *cache.Resource {
	return cache.NewResource(c.store, c.logger, newsKey, func(ctx context.Context) (any, error) {
		return c.apiClient.ListNews(ctx, 1, defaultPageLimit)
	}, cache.Options{})
}

// RunNews показывает ленту новостей. Новости публичны, но проходят
// через тот же кэш ресурсов, что и каталог сообществ.
func (c *Cli) RunNews(ctx context.Context) error {
	res := c.newsResource()

	entry, err := res.Get(ctx)
	if err != nil && !entry.HasValue() {
		return fmt.Errorf("failed to load news: %w", err)
	}

	list, _ := entry.Value.(*api.NewsListResponse)
	if list == nil || len(list.News) == 0 {
		c.io.Println("No news yet.")
		return nil
	}

	for _, item := range list.News {
		c.io.Printf("[%s] %s\n", item.PublishedAt.Format("2006-01-02"), item.Title)
		if item.Summary != "" {
			c.io.Printf("    %s\n", item.Summary)
		}
		if item.URL != "" {
			c.io.Printf("    %s\n", item.URL)
		}
	}
	c.io.Printf("\nTotal: %d\n", list.Total)
	return nil
}
