package auth

import "github.com/google/uuid"

// Action is a requested operation on a record, evaluated by Allow.
type Action int

const (
	// ActionRead covers listing and reading public records.
	ActionRead Action = iota
	// ActionCreate covers creating a project or sponsorship; the owner id on
	// the new record is forced to the subject's id, never taken from input.
	ActionCreate
	// ActionUpdate covers owner field updates on any record.
	ActionUpdate
	// ActionPurchase is the buyer-side counterparty transition on a project.
	ActionPurchase
	// ActionClose is the owner-side transition on a sponsorship.
	ActionClose
	// ActionApply is the developer-side counterparty transition on a
	// sponsorship.
	ActionApply
	// ActionDecide accepts or rejects an application; the target record is
	// the application's sponsorship.
	ActionDecide
	// ActionListApplications views the application set of a sponsorship.
	ActionListApplications
)

// Record is any owned entity the guard can evaluate.
type Record interface {
	OwnedBy() uuid.UUID
}

// Allow decides whether subject may perform action on record. It is
// deterministic, side-effect free, and never mutates state; lifecycle
// preconditions (current status and the like) are checked by the caller.
// A nil record is only meaningful for ActionRead and ActionCreate.
func Allow(subject Subject, action Action, record Record) bool {
	switch action {
	case ActionRead:
		return true
	case ActionCreate:
		return !subject.Anonymous()
	case ActionUpdate, ActionClose, ActionDecide, ActionListApplications:
		if subject.Anonymous() || record == nil {
			return false
		}
		return subject.UserID == record.OwnedBy()
	case ActionPurchase:
		// Owners cannot buy their own listing.
		if subject.Anonymous() || record == nil {
			return false
		}
		return subject.UserID != record.OwnedBy()
	case ActionApply:
		return !subject.Anonymous()
	default:
		return false
	}
}
