package adapter

import "adaptercore/pkg/domain"

// Logger is the minimal structured logging contract used by adapters. A
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Config holds the per instance flags of a List.
type Config struct {
	AllowDuplicates bool
	// NumberOfStates bounds item states to [0, NumberOfStates).
	NumberOfStates int
	ChoiceMode     domain.ChoiceMode
	// AdaptSelection keeps one entry selected in single choice mode after
	// structural changes when one can be selected.
	AdaptSelection bool
	// NotifyOnChange gates the host refresh signal; listeners are always
	// notified.
	NotifyOnChange bool
	Logger         Logger
}

// DefaultConfig returns the configuration used by NewList before options
// are applied.
func DefaultConfig() Config {
	return Config{
		NumberOfStates: 1,
		ChoiceMode:     domain.ChoiceNone,
		NotifyOnChange: true,
		Logger:         noopLogger{},
	}
}

// Option customises a List.
type Option func(*Config)

// WithAllowDuplicates sets the duplicate rule.
func WithAllowDuplicates(allow bool) Option {
	return func(c *Config) { c.AllowDuplicates = allow }
}

// WithNumberOfStates sets the number of item states. Values below 1 are
// ignored.
func WithNumberOfStates(n int) Option {
	return func(c *Config) {
		if n >= 1 {
			c.NumberOfStates = n
		}
	}
}

// WithChoiceMode sets the choice mode.
func WithChoiceMode(m domain.ChoiceMode) Option {
	return func(c *Config) { c.ChoiceMode = m }
}

// WithAdaptSelection toggles automatic selection adaption.
func WithAdaptSelection(on bool) Option {
	return func(c *Config) { c.AdaptSelection = on }
}

// WithNotifyOnChange toggles host refresh notifications.
func WithNotifyOnChange(on bool) Option {
	return func(c *Config) { c.NotifyOnChange = on }
}

// WithLogger installs a logger; nil restores the noop logger.
func WithLogger(l Logger) Option {
	return func(c *Config) {
		if l == nil {
			l = noopLogger{}
		}
		c.Logger = l
	}
}

// GroupConfig holds the per instance flags of an Expandable.
type GroupConfig struct {
	AllowDuplicateGroups bool
	// AllowDuplicateChildren is the default duplicate rule within one group;
	// groups may override it with a DuplicatePolicy.
	AllowDuplicateChildren bool
	// UniqueChildrenGlobally rejects children data-equal to a child of any
	// group.
	UniqueChildrenGlobally bool
	NumberOfStates         int
	ChoiceMode             domain.ChoiceMode
	SelectionScope         domain.SelectionScope
	AdaptSelection         bool
	NotifyOnChange         bool
	// ChildEnableFollowsGroup cascades group enable changes to the children.
	ChildEnableFollowsGroup bool
	// ChildStateFollowsGroup cascades group state changes to the children.
	ChildStateFollowsGroup bool
	// FilterEmptyGroups hides groups whose children are all filtered out.
	FilterEmptyGroups bool
	Logger            Logger
}

// DefaultGroupConfig returns the configuration used by NewExpandable before
// options are applied.
func DefaultGroupConfig() GroupConfig {
	return GroupConfig{
		AllowDuplicateChildren: true,
		NumberOfStates:         1,
		ChoiceMode:             domain.ChoiceNone,
		SelectionScope:         domain.ScopeGroupsAndChildren,
		NotifyOnChange:         true,
		Logger:                 noopLogger{},
	}
}

// GroupOption customises an Expandable.
type GroupOption func(*GroupConfig)

// WithGroupConfig replaces the whole configuration. A nil logger or a state
// count below 1 fall back to the defaults.
func WithGroupConfig(cfg GroupConfig) GroupOption {
	return func(c *GroupConfig) {
		*c = cfg
		if c.Logger == nil {
			c.Logger = noopLogger{}
		}
		if c.NumberOfStates < 1 {
			c.NumberOfStates = 1
		}
	}
}

// WithDuplicateGroups sets the duplicate rule of the group list.
func WithDuplicateGroups(allow bool) GroupOption {
	return func(c *GroupConfig) { c.AllowDuplicateGroups = allow }
}

// WithDuplicateChildren sets the default duplicate rule within a group.
func WithDuplicateChildren(allow bool) GroupOption {
	return func(c *GroupConfig) { c.AllowDuplicateChildren = allow }
}

// WithUniqueChildrenGlobally rejects children that exist in any group.
func WithUniqueChildrenGlobally(on bool) GroupOption {
	return func(c *GroupConfig) { c.UniqueChildrenGlobally = on }
}

// WithGroupStates sets the number of states of groups and children.
func WithGroupStates(n int) GroupOption {
	return func(c *GroupConfig) {
		if n >= 1 {
			c.NumberOfStates = n
		}
	}
}

// WithGroupChoice sets the choice mode and selection scope.
func WithGroupChoice(m domain.ChoiceMode, scope domain.SelectionScope) GroupOption {
	return func(c *GroupConfig) { c.ChoiceMode, c.SelectionScope = m, scope }
}

// WithGroupAdaptSelection toggles automatic selection adaption.
func WithGroupAdaptSelection(on bool) GroupOption {
	return func(c *GroupConfig) { c.AdaptSelection = on }
}

// WithGroupNotifyOnChange toggles host refresh notifications.
func WithGroupNotifyOnChange(on bool) GroupOption {
	return func(c *GroupConfig) { c.NotifyOnChange = on }
}

// WithChildrenFollowGroup sets the enable and state cascades.
func WithChildrenFollowGroup(enable, state bool) GroupOption {
	return func(c *GroupConfig) { c.ChildEnableFollowsGroup, c.ChildStateFollowsGroup = enable, state }
}

// WithFilterEmptyGroups hides groups without visible children while a child
// filter is active for them.
func WithFilterEmptyGroups(on bool) GroupOption {
	return func(c *GroupConfig) { c.FilterEmptyGroups = on }
}

// WithGroupLogger installs a logger; nil restores the noop logger.
func WithGroupLogger(l Logger) GroupOption {
	return func(c *GroupConfig) {
		if l == nil {
			l = noopLogger{}
		}
		c.Logger = l
	}
}
