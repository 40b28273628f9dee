package domain

import "time"

// ActivityKind classifies an entry in the auth activity trail.
type ActivityKind string

const (
	ActivityRegistered  ActivityKind = "registered"
	ActivityLoggedIn    ActivityKind = "logged_in"
	ActivityLoginFailed ActivityKind = "login_failed"
)

// ActivityEvent is one auth-related occurrence for an account. Events for the
// same email must be persisted in the order they were recorded.
type ActivityEvent struct {
	Email     string
	Kind      ActivityKind
	Timestamp time.Time
}
