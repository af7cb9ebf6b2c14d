package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/communitas/internal/client/session"
)

func (c *Cli) RunLogout(ctx context.Context) error {
	err := c.sessions.Delete(ctx)
	if errors.Is(err, session.ErrSessionNotFound) {
		c.io.Println("Not logged in.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	c.io.Println("✓ Logged out.")
	return nil
}
