package core

import (
	"errors"
	"fmt"
)

// Option is a function that configures the Core.
// Options return errors to enable validation during construction.
type Option func(*Core) error

// New creates a new Core instance with the provided options.
//
// The Core must be configured with a Validator using WithValidator.
// All other options are optional and will use sensible defaults if not provided.
//
// Example:
//
//	core, err := core.New(
//	    core.WithValidator(v),
//	    core.WithFailurePolicy(core.FailurePolicyAnonymous),
//	    core.WithLogger(logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
func New(opts ...Option) (*Core, error) {
	c := &Core{
		failurePolicy: FailurePolicyAnonymous,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// validate ensures all required fields are set.
func (c *Core) validate() error {
	if c.validator == nil {
		return NewValidationError(
			ErrorCodeValidatorNotSet,
			"validator is required but not set (use WithValidator option)",
			nil,
		)
	}
	return nil
}

// WithValidator sets the validator for the Core. This is a required option.
func WithValidator(validator Validator) Option {
	return func(c *Core) error {
		if validator == nil {
			return errors.New("validator cannot be nil")
		}
		c.validator = validator
		return nil
	}
}

// WithFailurePolicy configures what happens when a presented token fails verification.
//
// Default: FailurePolicyAnonymous. The request continues unauthenticated and
// downstream guards decide.
func WithFailurePolicy(policy FailurePolicy) Option {
	return func(c *Core) error {
		switch policy {
		case FailurePolicyAnonymous, FailurePolicyReject:
			c.failurePolicy = policy
			return nil
		default:
			return fmt.Errorf("unknown failure policy: %s", policy)
		}
	}
}

// WithLogger sets an optional logger for the Core.
//
// When configured, the Core logs verification outcomes and timing.
// Raw tokens are never logged.
func WithLogger(logger Logger) Option {
	return func(c *Core) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithRecorder sets an optional Recorder notified of each verification attempt.
func WithRecorder(recorder Recorder) Option {
	return func(c *Core) error {
		if recorder == nil {
			return errors.New("recorder cannot be nil")
		}
		c.recorder = recorder
		return nil
	}
}
