package main

import (
	"errors"
	"fmt"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrPolicyUnavailable  = errors.New("policy unavailable")
	ErrWritePDF           = errors.New("failed to write PDF file")
	ErrWriteOutput        = errors.New("failed to write output")
)

// policyError records which source failed so the hint can name it.
type policyError struct {
	source string
	err    error
}

func (e *policyError) Error() string {
	return fmt.Sprintf("%v: %v", ErrPolicyUnavailable, e.err)
}

func (e *policyError) Unwrap() []error {
	return []error{ErrPolicyUnavailable, e.err}
}

// listenError records the address the server failed to bind.
type listenError struct {
	addr string
	err  error
}

func (e *listenError) Error() string {
	return fmt.Sprintf("listening on %s: %v", e.addr, e.err)
}

func (e *listenError) Unwrap() error {
	return e.err
}
