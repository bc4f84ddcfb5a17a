// Package guard classifies a page request against authentication and
// subscription state. It is a pure function over the two upstream checks so
// route-guard policy can be tested without rendering anything.
package guard

// Check is the tri-state outcome of an upstream auth or subscription probe.
// A failed probe is its own value so that transient upstream errors can be
// classified conservatively instead of granting access.
type Check int

const (
	CheckPending Check = iota
	CheckFailed
	CheckNo
	CheckYes
)

// State is what the caller should render.
type State int

const (
	StateLoading State = iota
	StateUnauthenticated
	StateUnsubscribed
	StateAuthorized
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateUnsubscribed:
		return "unsubscribed"
	case StateAuthorized:
		return "authorized"
	default:
		return "unknown"
	}
}

// Classify maps the auth and subscription checks to a guard state. Failed
// checks deny: a failed auth probe reads as signed out, a failed
// subscription probe reads as unsubscribed. Authorized is only reachable
// when every required check affirmatively passed.
func Classify(auth, subscription Check, requireSubscription bool) State {
	switch auth {
	case CheckPending:
		return StateLoading
	case CheckYes:
	default:
		return StateUnauthenticated
	}

	if !requireSubscription {
		return StateAuthorized
	}

	switch subscription {
	case CheckPending:
		return StateLoading
	case CheckYes:
		return StateAuthorized
	default:
		return StateUnsubscribed
	}
}
