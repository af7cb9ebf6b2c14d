package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/communitas/internal/client/communities"
	"github.com/iudanet/communitas/pkg/api"
)

// attachSession устанавливает access token, если сессия сохранена.
// Каталог и ленты доступны анонимно, но с токеном сервер возвращает
// персональные флаги членства.
func (c *Cli) attachSession(ctx context.Context) {
	if _, err := c.requireSession(ctx); err != nil {
		c.logger.Debug("browsing anonymously", "error", err)
	}
}

func (c *Cli) RunCommunities(ctx context.Context) error {
	c.attachSession(ctx)

	list, entry, err := c.svc.Communities(ctx)
	if err != nil && list == nil {
		return fmt.Errorf("failed to load communities: %w", err)
	}

	c.printCommunities(list)
	if entry.Err != nil {
		c.io.Printf("\n⚠️  Showing cached data, last refresh failed: %v\n", entry.Err)
	}
	return nil
}

func (c *Cli) RunShow(ctx context.Context, slug string) error {
	c.attachSession(ctx)

	entry, err := c.svc.Community(slug).Get(ctx)
	if err != nil && !entry.HasValue() {
		return fmt.Errorf("failed to load community %s: %w", slug, err)
	}

	community, ok := entry.Value.(*api.Community)
	if !ok || community == nil {
		return fmt.Errorf("community %s not found", slug)
	}

	state := communities.StateOf(*community)
	c.io.Printf("Name:        %s\n", community.Name)
	c.io.Printf("Slug:        %s\n", community.Slug)
	c.io.Printf("Access:      %s\n", community.AccessType)
	c.io.Printf("Members:     %d\n", community.MemberCount)
	c.io.Printf("Membership:  %s\n", state)
	if community.Description != "" {
		c.io.Println()
		c.io.Println(community.Description)
	}
	return nil
}

// RunJoin ведет пользователя через вступление в сообщество: free
// вступает сразу, invitation_only/paid после подтверждения отправляет
// заявку на доступ. Повторный join для участника или ожидающей заявки
// не уходит в сеть.
func (c *Cli) RunJoin(ctx context.Context, slug string) error {
	if _, err := c.requireSession(ctx); err != nil {
		return err
	}

	list, _, err := c.svc.Communities(ctx)
	if err != nil && list == nil {
		return fmt.Errorf("failed to load communities: %w", err)
	}

	var target *api.Community
	for i := range list.Communities {
		if list.Communities[i].Slug == slug {
			target = &list.Communities[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("community %s not found", slug)
	}

	switch communities.StateOf(*target) {
	case communities.StateMember:
		c.io.Printf("You are already a member of %s.\n", target.Name)
		return nil
	case communities.StatePendingRequest:
		c.io.Printf("Your access request for %s is still pending.\n", target.Name)
		return nil
	}

	if target.AccessType != api.AccessFree {
		prompt := fmt.Sprintf("%s is %s and requires an access request. Send one?",
			target.Name, target.AccessType)
		ok, err := c.io.Confirm(prompt)
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !ok {
			c.io.Println("Cancelled.")
			return nil
		}
	}

	if err := c.svc.Join(ctx, target.ID, target.AccessType); err != nil {
		return err
	}

	if target.AccessType == api.AccessFree {
		c.io.Printf("✓ Joined %s!\n", target.Name)
	} else {
		c.io.Printf("✓ Access request for %s sent. You will become a member once it is approved.\n", target.Name)
	}
	return nil
}

func (c *Cli) printCommunities(list *api.CommunityListResponse) {
	if list == nil || len(list.Communities) == 0 {
		c.io.Println("No communities yet.")
		return
	}

	c.io.Printf("%-24s %-16s %8s  %s\n", "SLUG", "ACCESS", "MEMBERS", "MEMBERSHIP")
	for _, community := range list.Communities {
		c.io.Printf("%-24s %-16s %8d  %s\n",
			community.Slug,
			community.AccessType,
			community.MemberCount,
			communities.StateOf(community),
		)
	}
	c.io.Printf("\nTotal: %d\n", list.Total)
}
