package admission

import "sort"

// Action is a workflow command name as recorded in the audit trail.
type Action string

const (
	ActionSubmit           Action = "submit"
	ActionStartReview      Action = "start_review"
	ActionApproveAdmission Action = "approve_admission"
	ActionRejectAdmission  Action = "reject_admission"
	ActionAssignFee        Action = "assign_fee"
	ActionApproveFinal     Action = "approve_final"
	ActionRejectFinal      Action = "reject_final"
	ActionGateSatisfied    Action = "department_gate_satisfied"
	ActionCancel           Action = "cancel"
	ActionWithdraw         Action = "withdraw"

	// ActionUpdateClearance never appears in the transition table: clearance
	// writes do not move the status by themselves. It is only used to report
	// an illegal clearance update and, indirectly, via ActionGateSatisfied.
	ActionUpdateClearance Action = "update_clearance"
)

// Transition is one legal edge of the workflow.
type Transition struct {
	Next           Status
	RequiresRemark bool
}

// transitionTable is the single source of truth for legal status moves.
// No other code may branch on a status to decide what is allowed next.
var transitionTable = map[Status]map[Action]Transition{
	StatusDraft: {
		ActionSubmit: {Next: StatusSubmitted},
	},
	StatusSubmitted: {
		ActionStartReview: {Next: StatusPendingAdmissionReview},
	},
	StatusPendingAdmissionReview: {
		ActionApproveAdmission: {Next: StatusPendingFeeStructure},
		ActionRejectAdmission:  {Next: StatusRejectedByAdmission, RequiresRemark: true},
	},
	StatusPendingFeeStructure: {
		ActionAssignFee: {Next: StatusPendingPrincipal},
	},
	StatusPendingPrincipal: {
		ActionApproveFinal: {Next: StatusApproved},
		ActionRejectFinal:  {Next: StatusRejectedByPrincipal, RequiresRemark: true},
	},
	StatusApproved: {
		ActionGateSatisfied: {Next: StatusEnrolled},
	},
	StatusEnrolled:            {},
	StatusRejectedByAdmission: {},
	StatusRejectedByPrincipal: {},
	StatusCancelled:           {},
	StatusWithdrawn:           {},
}

// statuses from which an applicant may withdraw
var withdrawableStatuses = []Status{
	StatusSubmitted,
	StatusPendingAdmissionReview,
	StatusPendingFeeStructure,
	StatusPendingPrincipal,
}

func init() {
	// cancel is legal from every non-terminal status, withdraw from the
	// submitted/pending ones; both always require a remark.
	for _, edges := range transitionTable {
		if len(edges) == 0 {
			continue // terminal
		}
		edges[ActionCancel] = Transition{Next: StatusCancelled, RequiresRemark: true}
	}
	for _, status := range withdrawableStatuses {
		transitionTable[status][ActionWithdraw] = Transition{Next: StatusWithdrawn, RequiresRemark: true}
	}
}

// Lookup returns the transition for (status, action), if legal.
func Lookup(status Status, action Action) (Transition, bool) {
	edges, ok := transitionTable[status]
	if !ok {
		return Transition{}, false
	}
	t, ok := edges[action]
	return t, ok
}

// IsTerminal reports whether a status has no outgoing edges.
func IsTerminal(status Status) bool {
	return len(transitionTable[status]) == 0
}

// IsKnown reports whether a status exists in the workflow at all.
func IsKnown(status Status) bool {
	_, ok := transitionTable[status]
	return ok
}

// AvailableActions lists the legal actions from a status, sorted for
// stable API output. The auto gate action is excluded: callers cannot
// invoke it directly.
func AvailableActions(status Status) []Action {
	edges := transitionTable[status]
	actions := make([]Action, 0, len(edges))
	for action := range edges {
		if action == ActionGateSatisfied {
			continue
		}
		actions = append(actions, action)
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
	return actions
}

// AllStatuses lists every workflow status, sorted.
func AllStatuses() []Status {
	statuses := make([]Status, 0, len(transitionTable))
	for status := range transitionTable {
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })
	return statuses
}

// clearanceUpdatesAllowed keeps the "when may departments act" rule in this
// file alongside the table: only an approved, not-yet-enrolled Application
// accepts clearance writes.
func clearanceUpdatesAllowed(status Status) bool {
	return status == StatusApproved
}
