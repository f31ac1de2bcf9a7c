package assets

import "fmt"

// QCStatus tracks an asset's position in the QC lifecycle. The unassigned
// state is represented as NULL in the database and nil in Go.
type QCStatus string

const (
	QCPending    QCStatus = "pending"
	QCInProgress QCStatus = "in_progress"
	QCApproved   QCStatus = "approved"
	QCRejected   QCStatus = "rejected"
)

// ParseQCStatus validates and converts a QC status string.
func ParseQCStatus(s string) (QCStatus, error) {
	switch QCStatus(s) {
	case QCPending, QCInProgress, QCApproved, QCRejected:
		return QCStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown qc status %q", ErrValidation, s)
}

// Terminal reports whether the status ends the QC lifecycle.
func (s QCStatus) Terminal() bool {
	return s == QCApproved || s == QCRejected
}

// qcTransitions enumerates every legal forward transition. Clearing back to
// unassigned only happens through the explicit reset operation.
var qcTransitions = map[QCStatus][]QCStatus{
	QCPending:    {QCInProgress, QCApproved, QCRejected},
	QCInProgress: {QCApproved, QCRejected},
}

// CanTransition reports whether an asset may move from one QC status to
// another. A nil from represents the unassigned state, which advances to
// pending on assignment or straight to in_progress when a reset asset is
// claimed.
func CanTransition(from *QCStatus, to QCStatus) bool {
	if from == nil {
		return to == QCPending || to == QCInProgress
	}
	for _, next := range qcTransitions[*from] {
		if next == to {
			return true
		}
	}
	return false
}

// SupervisorStatus tracks an escalated asset's adjudication state. Assets
// never sent to a supervisor carry NULL.
type SupervisorStatus string

const (
	SupervisorPending  SupervisorStatus = "pending"
	SupervisorApproved SupervisorStatus = "approved"
	SupervisorRejected SupervisorStatus = "rejected"
)

// ParseSupervisorStatus validates and converts a supervisor status string.
func ParseSupervisorStatus(s string) (SupervisorStatus, error) {
	switch SupervisorStatus(s) {
	case SupervisorPending, SupervisorApproved, SupervisorRejected:
		return SupervisorStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown supervisor status %q", ErrValidation, s)
}

// ReviewAction is a reviewer's or supervisor's verdict on an asset.
type ReviewAction string

const (
	ActionApproved ReviewAction = "approved"
	ActionRejected ReviewAction = "rejected"
)

// ParseReviewAction validates and converts a review action string.
func ParseReviewAction(s string) (ReviewAction, error) {
	switch ReviewAction(s) {
	case ActionApproved, ActionRejected:
		return ReviewAction(s), nil
	}
	return "", fmt.Errorf("%w: unknown review action %q", ErrValidation, s)
}

// QCStatus returns the lifecycle status a verdict resolves to.
func (a ReviewAction) QCStatus() QCStatus {
	if a == ActionApproved {
		return QCApproved
	}
	return QCRejected
}

// SupervisorStatus returns the adjudication status a verdict resolves to.
func (a ReviewAction) SupervisorStatus() SupervisorStatus {
	if a == ActionApproved {
		return SupervisorApproved
	}
	return SupervisorRejected
}
