package notification

import "fmt"

// Fixed message templates keyed by business event. Kept dumb on purpose:
// the state machine decides who gets notified, these only produce text.

// NewRequestMessage goes to the assigned manager when a request enters the
// queue.
func NewRequestMessage(employeeName, leaveType, startDate, endDate string, totalDays int) (subject, body string) {
	subject = fmt.Sprintf("New leave request from %s", employeeName)
	body = fmt.Sprintf(
		"%s has requested %d day(s) of %s leave from %s to %s. Please review the request.",
		employeeName, totalDays, leaveType, startDate, endDate,
	)
	return subject, body
}

// StatusUpdateMessage goes to the employee on any terminal decision.
func StatusUpdateMessage(leaveType, startDate, endDate string, approved bool, comment string) (subject, body string) {
	verdict := "approved"
	if !approved {
		verdict = "rejected"
	}
	subject = fmt.Sprintf("Your %s leave request was %s", leaveType, verdict)
	body = fmt.Sprintf(
		"Your %s leave request for %s to %s has been %s.",
		leaveType, startDate, endDate, verdict,
	)
	if comment != "" {
		body += fmt.Sprintf(" Comment: %s", comment)
	}
	return subject, body
}

// ManagerActionToHRMessage goes to the HR roster after manager approval.
func ManagerActionToHRMessage(employeeName, leaveType, startDate, endDate string, totalDays int) (subject, body string) {
	subject = fmt.Sprintf("Leave request awaiting HR review: %s", employeeName)
	body = fmt.Sprintf(
		"The manager has approved %s's request for %d day(s) of %s leave from %s to %s. HR review is required.",
		employeeName, totalDays, leaveType, startDate, endDate,
	)
	return subject, body
}

// CancelledMessage goes to the employee when a request is cancelled.
func CancelledMessage(leaveType, startDate, endDate string) (subject, body string) {
	subject = fmt.Sprintf("Your %s leave request was cancelled", leaveType)
	body = fmt.Sprintf(
		"Your %s leave request for %s to %s has been cancelled.",
		leaveType, startDate, endDate,
	)
	return subject, body
}
