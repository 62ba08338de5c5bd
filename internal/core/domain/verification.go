package domain

import (
	"fmt"
	"strings"
)

// VerificationAction is an admin decision on a vendor or collector.
type VerificationAction string

const (
	ActionApprove          VerificationAction = "approve"
	ActionReject           VerificationAction = "reject"
	ActionReview           VerificationAction = "review"
	ActionRequestDocuments VerificationAction = "request_documents"
	ActionSuspend          VerificationAction = "suspend"
	ActionUnsuspend        VerificationAction = "unsuspend"
	ActionBlacklist        VerificationAction = "blacklist"
)

// ParseVerificationAction rejects anything outside the known action names.
// "mark_under_review" is accepted as an alias of "review".
func ParseVerificationAction(s string) (VerificationAction, error) {
	a := VerificationAction(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case ActionApprove, ActionReject, ActionReview, ActionRequestDocuments,
		ActionSuspend, ActionUnsuspend, ActionBlacklist:
		return a, nil
	case "mark_under_review":
		return ActionReview, nil
	default:
		return "", fmt.Errorf("%w: unknown action %q", ErrInvalidInput, s)
	}
}

// VerificationStatus is shared by vendors and collectors. Vendors never
// use documents_pending or blacklisted.
type VerificationStatus string

const (
	StatusPending          VerificationStatus = "pending"
	StatusDocumentsPending VerificationStatus = "documents_pending"
	StatusUnderReview      VerificationStatus = "under_review"
	StatusApproved         VerificationStatus = "approved"
	StatusRejected         VerificationStatus = "rejected"
	StatusSuspended        VerificationStatus = "suspended"
	StatusBlacklisted      VerificationStatus = "blacklisted"
)

type transitionTable map[VerificationStatus]map[VerificationAction]VerificationStatus

// vendorTransitions lists every legal (state, action) pair for vendors.
var vendorTransitions = transitionTable{
	StatusPending: {
		ActionApprove: StatusApproved,
		ActionReject:  StatusRejected,
		ActionReview:  StatusUnderReview,
	},
	StatusUnderReview: {
		ActionApprove: StatusApproved,
		ActionReject:  StatusRejected,
		ActionReview:  StatusUnderReview,
	},
	StatusApproved: {
		ActionApprove: StatusApproved,
		ActionReject:  StatusRejected,
		ActionReview:  StatusUnderReview,
		ActionSuspend: StatusSuspended,
	},
	StatusRejected: {
		ActionApprove: StatusApproved,
		ActionReject:  StatusRejected,
		ActionReview:  StatusUnderReview,
	},
	StatusSuspended: {
		ActionReject:    StatusRejected,
		ActionUnsuspend: StatusApproved,
	},
}

// collectorTransitions lists every legal (state, action) pair for collectors.
// Approve targets approved; the documentation gate may redirect it to
// documents_pending. Blacklisted is terminal.
var collectorTransitions = transitionTable{
	StatusPending: {
		ActionApprove:          StatusApproved,
		ActionReject:           StatusRejected,
		ActionReview:           StatusUnderReview,
		ActionRequestDocuments: StatusDocumentsPending,
		ActionBlacklist:        StatusBlacklisted,
	},
	StatusDocumentsPending: {
		ActionApprove:          StatusApproved,
		ActionReject:           StatusRejected,
		ActionReview:           StatusUnderReview,
		ActionRequestDocuments: StatusDocumentsPending,
		ActionBlacklist:        StatusBlacklisted,
	},
	StatusUnderReview: {
		ActionApprove:          StatusApproved,
		ActionReject:           StatusRejected,
		ActionRequestDocuments: StatusDocumentsPending,
		ActionBlacklist:        StatusBlacklisted,
	},
	StatusApproved: {
		ActionApprove:   StatusApproved,
		ActionReject:    StatusRejected,
		ActionSuspend:   StatusSuspended,
		ActionBlacklist: StatusBlacklisted,
	},
	StatusRejected: {
		ActionApprove:   StatusApproved,
		ActionReview:    StatusUnderReview,
		ActionBlacklist: StatusBlacklisted,
	},
	StatusSuspended: {
		ActionReject:    StatusRejected,
		ActionUnsuspend: StatusApproved,
		ActionBlacklist: StatusBlacklisted,
	},
}

func (t transitionTable) next(kind string, from VerificationStatus, action VerificationAction) (VerificationStatus, error) {
	actions, ok := t[from]
	if !ok {
		return "", fmt.Errorf("%w: %s has no transitions from %q", ErrInvalidTransition, kind, from)
	}
	to, ok := actions[action]
	if !ok {
		return "", fmt.Errorf("%w: cannot %s a %s in state %q", ErrInvalidTransition, action, kind, from)
	}
	return to, nil
}

func (t transitionTable) supports(action VerificationAction) bool {
	for _, actions := range t {
		if _, ok := actions[action]; ok {
			return true
		}
	}
	return false
}

// NextVendorStatus looks up the vendor transition table.
func NextVendorStatus(from VerificationStatus, action VerificationAction) (VerificationStatus, error) {
	if !vendorTransitions.supports(action) {
		return "", fmt.Errorf("%w: action %q does not apply to vendors", ErrInvalidInput, action)
	}
	return vendorTransitions.next("vendor", from, action)
}

// NextCollectorStatus looks up the collector transition table.
func NextCollectorStatus(from VerificationStatus, action VerificationAction) (VerificationStatus, error) {
	if !collectorTransitions.supports(action) {
		return "", fmt.Errorf("%w: action %q does not apply to collectors", ErrInvalidInput, action)
	}
	return collectorTransitions.next("collector", from, action)
}
