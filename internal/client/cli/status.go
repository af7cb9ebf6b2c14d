package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/communitas/internal/client/session"
)

func (c *Cli) RunStatus(ctx context.Context) error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	sess, err := c.sessions.Get(ctx)
	if errors.Is(err, session.ErrSessionNotFound) {
		c.io.Println("Status: Not authenticated")
		c.io.Println()
		c.io.Println("Run 'communitas login' to authenticate.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	expiresAt := time.Unix(sess.ExpiresAt, 0)
	remaining := time.Until(expiresAt)

	c.io.Println("Status: Authenticated")
	c.io.Printf("Username: %s\n", sess.Username)
	c.io.Printf("Server: %s\n", sess.ServerURL)
	c.io.Printf("Token expires: %s\n", expiresAt.Format(time.RFC3339))

	if remaining > 0 {
		c.io.Printf("Time remaining: %s\n", remaining.Round(time.Second))
	} else {
		c.io.Println("⚠️  Access token has expired. It will be refreshed on the next command.")
	}
	return nil
}
