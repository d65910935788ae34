package services

import (
	"fmt"
	"log"
	"time"

	"alfredoptarigan/ai-interviewer/internal/observability"
)

// WithFallback runs fn and substitutes fallback when it fails or panics.
// Every AI-backed step goes through here so the degrade-to-default rule is
// applied and counted the same way everywhere.
func WithFallback[T any](operation string, fn func() (T, error), fallback T) (result T) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️  %s panicked, using fallback: %v\n", operation, r)
			observability.ObserveAI(operation, observability.OutcomeFallback, time.Since(start))
			result = fallback
		}
	}()

	value, err := fn()
	if err != nil {
		log.Printf("⚠️  %s failed, using fallback: %v\n", operation, err)
		observability.ObserveAI(operation, observability.OutcomeFallback, time.Since(start))
		return fallback
	}

	observability.ObserveAI(operation, observability.OutcomeOK, time.Since(start))
	return value
}

// errEmptyResult marks a call that succeeded but produced nothing usable.
func errEmptyResult(what string) error {
	return fmt.Errorf("%s: empty result", what)
}
