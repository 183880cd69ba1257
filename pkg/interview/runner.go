// Package interview collects and validates form values interactively. The
// runner walks a compiled form in declaration order, prompting for each
// field; field-local rules run as prompt validators so bad input is rejected
// immediately, and cross-field match rules are checked in a final pass over
// the collected values.
package interview

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formval/pkg/formspec"
	"github.com/goliatone/go-formval/pkg/rules"
	"github.com/goliatone/go-formval/pkg/validate"
)

// Runner drives one interactive session per Run call. Safe to reuse.
type Runner struct {
	driver   PromptDriver
	attempts int
}

// Option configures the runner.
type Option func(*Runner)

// WithDriver swaps the terminal driver, mainly for tests.
func WithDriver(driver PromptDriver) Option {
	return func(r *Runner) { r.driver = driver }
}

// WithAttempts sets how many full passes the runner makes over fields that
// fail cross-field rules before giving up. Default is 3.
func WithAttempts(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.attempts = n
		}
	}
}

// New returns a runner backed by a survey prompt driver unless overridden.
func New(options ...Option) *Runner {
	r := &Runner{attempts: 3}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = newSurveyDriver()
	}
	return r
}

// Run prompts for every field of the form and returns the validated values.
// The returned values always pass the form's full validation; if the user
// cannot produce a passing instance within the configured attempts, Run
// returns the last failure set as a validate.Errors error.
func (r *Runner) Run(ctx context.Context, form *formspec.Form) (validate.Values, error) {
	vv := validate.ForValues(form)
	values := validate.Values{}

	if err := r.collect(ctx, vv, form.Fields(), values); err != nil {
		return nil, err
	}

	failures := vv.Validate(values)
	for attempt := 1; len(failures) > 0 && attempt < r.attempts; attempt++ {
		retry := failedFields(form, failures)
		if len(retry) == 0 {
			break
		}
		if err := r.collect(ctx, vv, retry, values); err != nil {
			return nil, err
		}
		failures = vv.Validate(values)
	}

	if len(failures) > 0 {
		return values, failures
	}
	return values, nil
}

func (r *Runner) collect(ctx context.Context, vv *validate.ValuesValidator, fields []formspec.Field, values validate.Values) error {
	for _, field := range fields {
		value, present, err := r.ask(ctx, vv, field)
		if err != nil {
			return err
		}
		if present {
			values[field.Name()] = value
		} else {
			delete(values, field.Name())
		}
	}
	return nil
}

func (r *Runner) ask(ctx context.Context, vv *validate.ValuesValidator, field formspec.Field) (any, bool, error) {
	if field.Type() == rules.TypeBool {
		answer, err := r.driver.Confirm(ctx, ConfirmConfig{Message: promptMessage(field)})
		if err != nil {
			return nil, false, err
		}
		return answer, true, nil
	}

	cfg := InputConfig{
		Message:   promptMessage(field),
		Validator: fieldValidator(vv, field),
	}

	var (
		text string
		err  error
	)
	if isSecret(field.Name()) {
		text, err = r.driver.Password(ctx, cfg)
	} else {
		text, err = r.driver.Input(ctx, cfg)
	}
	if err != nil {
		return nil, false, err
	}
	if text == "" && field.Optional() {
		return nil, false, nil
	}

	value, err := parseValue(text, field.Type())
	if err != nil {
		// The prompt validator already vetted the text; a parse failure here
		// means the driver bypassed validation (tests), so surface it.
		return nil, false, err
	}
	return value, true, nil
}

// fieldValidator adapts the field's local rules into a prompt validator.
func fieldValidator(vv *validate.ValuesValidator, field formspec.Field) func(string) error {
	return func(text string) error {
		if text == "" && field.Optional() {
			return nil
		}
		value, err := parseValue(text, field.Type())
		if err != nil {
			return err
		}
		if failures := vv.ValidateField(field.Name(), value); len(failures) > 0 {
			return errors.New(failures[0].Message)
		}
		return nil
	}
}

func parseValue(text string, ftype rules.FieldType) (any, error) {
	switch {
	case ftype == rules.TypeString:
		return text, nil
	case ftype.IsFloat():
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("expected a number, got %q", text)
		}
		return f, nil
	case ftype.IsUnsigned():
		u, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("expected a non-negative integer, got %q", text)
		}
		return u, nil
	case ftype.IsNumeric():
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %q", text)
		}
		return i, nil
	default:
		return nil, fmt.Errorf("unsupported field type %s", ftype)
	}
}

func promptMessage(field formspec.Field) string {
	label := field.Name()
	if field.Optional() {
		label += " (optional)"
	}
	return label + ":"
}

func isSecret(name string) bool {
	return strings.Contains(strings.ToLower(name), "password")
}

// failedFields maps a failure set back onto form fields, preserving
// declaration order and dropping duplicates.
func failedFields(form *formspec.Form, failures validate.Errors) []formspec.Field {
	failed := make(map[string]struct{}, len(failures))
	for _, failure := range failures {
		failed[failure.Field] = struct{}{}
	}
	var fields []formspec.Field
	for _, field := range form.Fields() {
		if _, ok := failed[field.Name()]; ok {
			fields = append(fields, field)
		}
	}
	return fields
}
