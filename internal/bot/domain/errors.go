package domain

import "errors"

var (
	// ErrJobNotFound is returned when a job id does not resolve to a job
	ErrJobNotFound = errors.New("job not found")

	// ErrUnknownTechnician is returned when a name does not resolve to an active technician
	ErrUnknownTechnician = errors.New("unknown technician")

	// ErrUnknownModel is returned when a model key is absent from the price catalog
	ErrUnknownModel = errors.New("unknown model")

	// ErrInvalidTransition is returned when a status change would violate the job lifecycle
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUnknownTimezone is returned when an argument cannot be resolved to a timezone
	ErrUnknownTimezone = errors.New("unknown timezone")
)
