// ABOUTME: CiviCRM client wiring: configuration, runner, logger and clock
// ABOUTME: Every typed operation goes through call/fetch, which build, run, decode and record metrics
package civicrm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/harperreed/civibridge/logger"
)

// RoleConfig holds the relationship type codes used for case roles.
type RoleConfig struct {
	CoordinatorTypeID  int64
	ManagerTypeID      int64
	ResolveDynamically bool
	CoordinatorLabel   string
	ManagerLabel       string
	OpenStatusID       int64
}

type Config struct {
	CVPath       string
	SettingsPath string
	SettingsEnv  string

	// StatsSampleSize bounds the contributions read by GetContributionStats.
	StatsSampleSize int
	// ScanLimit bounds the id scans behind GetOverallStats.
	ScanLimit int

	Roles RoleConfig
}

func DefaultConfig() Config {
	return Config{
		CVPath:          "cv",
		SettingsEnv:     DefaultSettingsEnv,
		StatsSampleSize: 1000,
		ScanLimit:       999999,
		Roles: RoleConfig{
			CoordinatorTypeID: 9,
			ManagerTypeID:     10,
			CoordinatorLabel:  "Case Coordinator is",
			ManagerLabel:      "Case Manager is",
			OpenStatusID:      1,
		},
	}
}

// Client runs typed api4 queries through a Runner.
type Client struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Client)

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock overrides the clock used for "today" in date filters.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

func New(cfg Config, runner Runner, opts ...Option) *Client {
	defaults := DefaultConfig()
	if cfg.StatsSampleSize <= 0 {
		cfg.StatsSampleSize = defaults.StatsSampleSize
	}
	if cfg.ScanLimit <= 0 {
		cfg.ScanLimit = defaults.ScanLimit
	}
	if cfg.Roles.CoordinatorTypeID == 0 {
		cfg.Roles.CoordinatorTypeID = defaults.Roles.CoordinatorTypeID
	}
	if cfg.Roles.ManagerTypeID == 0 {
		cfg.Roles.ManagerTypeID = defaults.Roles.ManagerTypeID
	}
	if cfg.Roles.OpenStatusID == 0 {
		cfg.Roles.OpenStatusID = defaults.Roles.OpenStatusID
	}
	if cfg.Roles.CoordinatorLabel == "" {
		cfg.Roles.CoordinatorLabel = defaults.Roles.CoordinatorLabel
	}
	if cfg.Roles.ManagerLabel == "" {
		cfg.Roles.ManagerLabel = defaults.Roles.ManagerLabel
	}

	c := &Client{
		cfg:    cfg,
		runner: runner,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the effective configuration after defaults were applied.
func (c *Client) Config() Config {
	return c.cfg
}

func (c *Client) commandConfig() CommandConfig {
	return CommandConfig{
		CVPath:       c.cfg.CVPath,
		SettingsPath: c.cfg.SettingsPath,
		SettingsEnv:  c.cfg.SettingsEnv,
	}
}

// log prefers the call-scoped logger carried by ctx.
func (c *Client) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOr(ctx, c.logger)
}

func (c *Client) today() string {
	return c.now().Format("2006-01-02")
}

// call runs one api4 invocation and returns raw stdout.
func (c *Client) call(ctx context.Context, entity, action string, q Query) (string, error) {
	cmd, err := BuildCommand(c.commandConfig(), entity, action, q)
	if err != nil {
		recordInvocation(entity, action, outcomeInvalid, 0)
		return "", err
	}

	start := time.Now()
	out, err := c.runner.Run(ctx, cmd)
	elapsed := time.Since(start)
	if err != nil {
		recordInvocation(entity, action, outcomeProcessError, elapsed)
		c.log(ctx).Debug("cv call failed",
			slog.String("entity", entity),
			slog.String("action", action),
			slog.Duration("duration", elapsed),
			slog.Any("error", err),
		)
		var perr *ProcessError
		if errors.As(err, &perr) {
			return "", err
		}
		return "", &ProcessError{Command: cmd.String(), ExitCode: -1, Stderr: out.Stderr, Err: err}
	}

	c.log(ctx).Debug("cv call",
		slog.String("entity", entity),
		slog.String("action", action),
		slog.Duration("duration", elapsed),
	)
	return out.Stdout, nil
}

// fetch runs a get-style call and decodes the record array into T.
func fetch[T any](ctx context.Context, c *Client, entity string, q Query) ([]T, error) {
	start := time.Now()
	stdout, err := c.call(ctx, entity, "get", q)
	if err != nil {
		return nil, err
	}
	rows, err := DecodeRows[T](stdout)
	if err != nil {
		recordInvocation(entity, "get", outcomeDecodeError, time.Since(start))
		return nil, err
	}
	recordInvocation(entity, "get", outcomeOK, time.Since(start))
	return rows, nil
}
