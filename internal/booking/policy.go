package booking

import "time"

// Action identifies the mutation an actor is attempting on a booking.
type Action string

const (
	// ActionEdit covers updates to an existing booking.
	ActionEdit Action = "edit"
	// ActionCancel covers deletion of an existing booking.
	ActionCancel Action = "cancel"
)

// Actor carries the requesting user's identity and permission flags.
type Actor struct {
	UserID    string
	IsAdmin   bool
	CanEdit   bool
	CanCancel bool
}

// DenyReason distinguishes why a mutation was refused, so callers can
// surface the correct remediation.
type DenyReason string

const (
	// DenyReasonNone accompanies an allowed decision.
	DenyReasonNone DenyReason = ""
	// DenyReasonGraceExpired means the owner's self-service window has
	// passed and no explicit permission flag is set.
	DenyReasonGraceExpired DenyReason = "grace_expired"
	// DenyReasonNotPermitted means the actor is neither owner nor admin
	// and holds no explicit permission flag.
	DenyReasonNotPermitted DenyReason = "not_permitted"
)

// Decision is the terminal outcome of a mutation policy evaluation.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// EvaluateMutation decides whether the actor may perform the action on a
// booking owned by ownerID and created at createdAt.
//
// Admins may always mutate. Owners may mutate unconditionally within the
// grace window after creation; afterwards the matching permission flag is
// required. Everyone else needs the matching permission flag.
func EvaluateMutation(actor Actor, ownerID string, createdAt, now time.Time, grace time.Duration, action Action) Decision {
	if actor.IsAdmin {
		return Decision{Allowed: true}
	}

	permitted := actor.CanEdit
	if action == ActionCancel {
		permitted = actor.CanCancel
	}

	if actor.UserID != "" && actor.UserID == ownerID {
		if now.Sub(createdAt) <= grace {
			return Decision{Allowed: true}
		}
		if permitted {
			return Decision{Allowed: true}
		}
		return Decision{Reason: DenyReasonGraceExpired}
	}

	if permitted {
		return Decision{Allowed: true}
	}
	return Decision{Reason: DenyReasonNotPermitted}
}
