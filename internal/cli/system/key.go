package system

import (
	"errors"
	"fmt"

	"github.com/lichiahui/lifelog/internal/cli"
	"github.com/lichiahui/lifelog/internal/keyring"
)

// KeySetCmd stores the AI provider API key in the OS keyring.
type KeySetCmd struct {
	APIKey string `arg:"" help:"API key to store in the keyring."`
}

func (cmd *KeySetCmd) Run(ctx *cli.Context) error {
	if err := keyring.SetAPIKey(cmd.APIKey); err != nil {
		return fmt.Errorf("failed to store API key in keyring: %w", err)
	}

	fmt.Println("✓ API key stored successfully in OS keyring")
	return nil
}

// KeyStatusCmd checks keyring availability and whether a key is stored.
type KeyStatusCmd struct{}

func (cmd *KeyStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}
	fmt.Println("✓ OS keyring is available")

	_, err := keyring.GetAPIKey()
	switch {
	case err == nil:
		fmt.Println("✓ API key is stored in keyring")
	case errors.Is(err, keyring.ErrNotFound):
		fmt.Println("ℹ No API key stored in keyring")
	default:
		return fmt.Errorf("failed to read API key from keyring: %w", err)
	}
	return nil
}

// KeyDeleteCmd removes the API key from the OS keyring.
type KeyDeleteCmd struct{}

func (cmd *KeyDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteAPIKey(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no API key found in keyring")
		}
		return fmt.Errorf("failed to delete API key from keyring: %w", err)
	}

	fmt.Println("✓ API key deleted from OS keyring")
	return nil
}
