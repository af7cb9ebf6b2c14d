package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/communitas/internal/client/session"
	"github.com/iudanet/communitas/pkg/api"
)

func (c *Cli) RunLogin(ctx context.Context) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	tokens, err := c.apiClient.Login(ctx, api.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return err
	}

	sess := &session.Session{
		Username:     username,
		ServerURL:    c.serverURL,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    time.Now().Unix() + tokens.ExpiresIn,
	}
	if err := c.sessions.Save(ctx, sess); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	c.apiClient.SetToken(tokens.AccessToken)
	c.logger.Info("logged in", "username", username)

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Welcome, %s\n", username)
	return nil
}
