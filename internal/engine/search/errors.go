package search

import "github.com/pkg/errors"

// Sentinels for errors.Is. Every failure returned by the orchestrator
// matches exactly one of them.
var (
	ErrMissingInput           = errors.New("missing input")
	ErrLookupFailure          = errors.New("lookup failed")
	ErrDetailFetchFailure     = errors.New("detail fetch failed")
	ErrPitchGenerationFailure = errors.New("pitch generation failed")
)

// InputError rejects a request before any collaborator is called.
type InputError struct {
	Field string
}

func (e *InputError) Error() string { return "missing " + e.Field }

func (e *InputError) Is(target error) bool { return target == ErrMissingInput }

// LookupError carries the lookup collaborator's failure message unchanged.
type LookupError struct {
	Err error
}

func (e *LookupError) Error() string { return e.Err.Error() }

func (e *LookupError) Unwrap() error { return e.Err }

func (e *LookupError) Is(target error) bool { return target == ErrLookupFailure }

type DetailError struct {
	PlaceID string
	Err     error
}

func (e *DetailError) Error() string {
	return "fetching details for " + e.PlaceID + ": " + e.Err.Error()
}

func (e *DetailError) Unwrap() error { return e.Err }

func (e *DetailError) Is(target error) bool { return target == ErrDetailFetchFailure }

type PitchError struct {
	Name string
	Err  error
}

func (e *PitchError) Error() string {
	return "generating pitch for " + e.Name + ": " + e.Err.Error()
}

func (e *PitchError) Unwrap() error { return e.Err }

func (e *PitchError) Is(target error) bool { return target == ErrPitchGenerationFailure }
