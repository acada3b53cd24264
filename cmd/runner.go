package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotsync/internal/gateway"
	"github.com/desertthunder/spotsync/internal/hass"
	"github.com/desertthunder/spotsync/internal/shared"
	"github.com/desertthunder/spotsync/internal/store"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer

	// gw, when set, bypasses the websocket dial. Tests inject a double here.
	gw gateway.Gateway
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	Gateway    gateway.Gateway
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		gw:         opts.Gateway,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, accountsCommand, devicesCommand, playerCommand, viewCommand, browseCommand, searchCommand, playCommand, likeCommand, exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openGateway returns a spotcast gateway backed by a fresh host session, plus
// its cleanup func. A gateway injected via [RunnerOpts] is returned as is.
func (r *Runner) openGateway(ctx context.Context) (gateway.Gateway, func(), error) {
	if r.gw != nil {
		return r.gw, func() {}, nil
	}

	conf := r.config.Hass
	if conf.URL == "" {
		return nil, nil, fmt.Errorf("%w: hass.url must be set in %s", shared.ErrMissingConfig, r.configPath)
	}

	session, err := hass.Connect(ctx, conf.URL, conf.Token, hass.Options{
		Logger:    r.logger,
		RateLimit: conf.RateLimit,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to Home Assistant: %w", err)
	}

	return gateway.New(session, store.New()), func() { session.Close() }, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
