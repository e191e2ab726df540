package payroll

import "github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"

// Action is a workflow transition.
type Action string

const (
	ActionSubmit   Action = "submit"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionMarkPaid Action = "mark_paid"
)

type transition struct {
	from       PeriodStatus
	to         PeriodStatus
	permission user.Permission
}

var transitions = map[Action]transition{
	ActionSubmit:   {from: StatusDraft, to: StatusSubmitted, permission: user.PermissionPayrollSubmit},
	ActionApprove:  {from: StatusSubmitted, to: StatusApproved, permission: user.PermissionPayrollApprove},
	ActionReject:   {from: StatusSubmitted, to: StatusDraft, permission: user.PermissionPayrollReject},
	ActionMarkPaid: {from: StatusApproved, to: StatusPaid, permission: user.PermissionPayrollPay},
}

// NextStatus returns the status reached by applying action to current, or a
// *StateError wrapping ErrInvalidTransition.
func NextStatus(current PeriodStatus, action Action) (PeriodStatus, error) {
	t, ok := transitions[action]
	if !ok || t.from != current {
		return current, &StateError{Op: string(action), Current: current, Kind: ErrInvalidTransition}
	}
	return t.to, nil
}

// Permission is the permission an actor needs to perform the action.
func (a Action) Permission() user.Permission {
	return transitions[a].permission
}

// CanPerform reports whether role may perform the action.
func (a Action) CanPerform(role user.Role) bool {
	t, ok := transitions[a]
	return ok && user.HasPermission(role, t.permission)
}

// EnsureEditable guards detail, component and tax mutations. kind is
// ErrPeriodLocked for edits and ErrInvalidPeriodState for tax calculation.
func EnsureEditable(op string, status PeriodStatus, kind error) error {
	if status != StatusDraft {
		return &StateError{Op: op, Current: status, Kind: kind}
	}
	return nil
}

// EnsureProofAttachable allows a payment proof only on an approved period.
func EnsureProofAttachable(status PeriodStatus) error {
	if status != StatusApproved {
		return &StateError{Op: "attach_payment_proof", Current: status, Kind: ErrPeriodLocked}
	}
	return nil
}
