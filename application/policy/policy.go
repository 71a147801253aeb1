// Package policy holds the stateless decision functions of the ticket
// engine. Every function consumes plain inputs and returns a Decision;
// nothing here touches storage or the platform. Role membership arrives
// as a Capabilities set resolved by the caller, keeping the engine
// role-system-agnostic.
package policy

import (
	"fmt"

	"helpdesk/common"
)

// Capabilities is the boolean capability set the collaborator layer
// resolves for the requesting actor before invoking the engine.
type Capabilities struct {
	Support bool `json:"support"`
	Admin   bool `json:"admin"`
}

// Staff reports whether the actor holds the support or admin role.
func (c Capabilities) Staff() bool {
	return c.Support || c.Admin
}

// Decision is an Allow/Deny result. A denied decision carries a
// human-readable reason safe to show to the requesting actor.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow returns a permitting decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a refusing decision with a display reason.
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Err converts a decision into the engine's error taxonomy: nil when
// allowed, PolicyDeniedError otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return common.NewPolicyDeniedError(d.Reason)
}

// CanOpenTicket decides whether an actor may open a ticket: denied when
// blacklisted, denied when the actor's open-ticket count has reached the
// guild's maximum.
func CanOpenTicket(entry *common.BlacklistEntry, openCount, maxOpen int) Decision {
	if entry != nil {
		return Deny(fmt.Sprintf("you are blacklisted from creating tickets: %s", entry.Reason))
	}
	if openCount >= maxOpen {
		return Deny(fmt.Sprintf("you already have %d open ticket(s), close an existing ticket before creating a new one", maxOpen))
	}
	return Allow()
}

// CanCloseTicket allows the ticket owner and staff to close a ticket.
func CanCloseTicket(t *common.Ticket, actorID string, caps Capabilities) Decision {
	if actorID == t.UserID || caps.Staff() {
		return Allow()
	}
	return Deny("you do not have permission to close this ticket")
}

// CanClaimTicket allows staff to claim a ticket that nobody has claimed
// yet.
func CanClaimTicket(t *common.Ticket, caps Capabilities) Decision {
	if !caps.Staff() {
		return Deny("only support staff can claim tickets")
	}
	if t.ClaimedBy.Valid {
		return Deny("this ticket has already been claimed")
	}
	return Allow()
}

// CanRemoveParticipant denies removing the ticket owner from their own
// ticket; anyone else may be removed.
func CanRemoveParticipant(t *common.Ticket, targetID string) Decision {
	if targetID == t.UserID {
		return Deny("cannot remove the ticket creator")
	}
	return Allow()
}
