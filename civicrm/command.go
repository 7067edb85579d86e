// ABOUTME: Builds `cv api4 <Entity>.<action> '<json>'` invocations from typed queries
// ABOUTME: Keeps argv form for execution and renders the documented shell form for logs
package civicrm

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultSettingsEnv is the variable cv reads to locate civicrm.settings.php.
const DefaultSettingsEnv = "CIVICRM_SETTINGS"

// CommandConfig locates the query engine and the CRM settings file.
type CommandConfig struct {
	CVPath       string
	SettingsPath string
	SettingsEnv  string
}

// Command is a fully rendered cv invocation. Args is passed to the process
// as argv, so the JSON parameter blob is never interpreted by a shell.
type Command struct {
	Entity string
	Action string
	Query  Query
	Path   string
	Args   []string
	Env    []string
}

var identifier = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// BuildCommand validates the query and renders it into a Command.
func BuildCommand(cfg CommandConfig, entity, action string, q Query) (Command, error) {
	if !identifier.MatchString(entity) {
		return Command{}, fmt.Errorf("%w: bad entity name %q", ErrInvalidQuery, entity)
	}
	if !identifier.MatchString(action) {
		return Command{}, fmt.Errorf("%w: bad action name %q", ErrInvalidQuery, action)
	}
	if strings.TrimSpace(cfg.CVPath) == "" {
		return Command{}, fmt.Errorf("%w: cv path is not configured", ErrInvalidQuery)
	}
	if err := q.Validate(); err != nil {
		return Command{}, err
	}

	params, err := marshalParams(q)
	if err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	settingsEnv := cfg.SettingsEnv
	if settingsEnv == "" {
		settingsEnv = DefaultSettingsEnv
	}

	return Command{
		Entity: entity,
		Action: action,
		Query:  q,
		Path:   cfg.CVPath,
		Args:   []string{"api4", entity + "." + action, string(params)},
		Env:    []string{settingsEnv + "=" + cfg.SettingsPath},
	}, nil
}

// Params returns the JSON parameter blob.
func (c Command) Params() string {
	if len(c.Args) < 3 {
		return ""
	}
	return c.Args[2]
}

// String renders the command the way it would be typed in a shell.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Env)+len(c.Args)+1)
	parts = append(parts, c.Env...)
	parts = append(parts, c.Path)
	for i, arg := range c.Args {
		if i == 2 {
			arg = "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}
