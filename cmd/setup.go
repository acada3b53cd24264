package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// setupCommand initializes a configuration file from the embedded template.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create a configuration file from the template",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// Setup writes the template config to disk and points the user at the fields
// that must be filled in before connecting.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	r.logger.Info("config file created", "path", configPath)

	r.writePlain("✓ Config written to %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set hass.url to your websocket endpoint, e.g. ws://homeassistant.local:8123/api/websocket\n")
	r.writePlain("2. Set hass.token to a long-lived access token\n")
	r.writePlain("3. Run 'spotsync accounts' to verify the connection\n")

	return nil
}
