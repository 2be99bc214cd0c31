package consumer

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"go-leavedesk/internal/employee"
	"go-leavedesk/internal/events"
	"go-leavedesk/internal/leave"
	"go-leavedesk/internal/notification"
)

// ConsumeLeaveLifecycle feeds the notifier deployment: it reads lifecycle
// events off the outbox topic and translates each into notification work
// items. The translation mirrors the state machine's own fan-out rules, so a
// deployment runs either the in-process enqueue or this consumer, not both.
func ConsumeLeaveLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	employees employee.Repository,
	queue notification.Enqueuer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	log.Info("leave lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave lifecycle consumer stopped")
				return
			}
			log.Error("fetch leave lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.LeaveLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := fanOut(ctx, event, employees, queue, log); err != nil {
			log.Error("leave lifecycle fan-out failed",
				zap.String("event_type", event.EventType),
				zap.String("request_id", event.RequestID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave lifecycle message failed", zap.Error(err))
			continue
		}

		log.Debug("leave lifecycle event dispatched",
			zap.String("event_type", event.EventType),
			zap.String("request_id", event.RequestID),
		)
	}
}

func fanOut(
	ctx context.Context,
	event events.LeaveLifecycleEvent,
	employees employee.Repository,
	queue notification.Enqueuer,
	log *zap.Logger,
) error {
	switch event.EventType {
	case events.LeaveSubmitted:
		// Auto-approved submissions carry their final status; the hr_decided
		// event staged alongside covers the employee, so only a genuinely
		// pending request pings the manager.
		if event.Status != leave.StatusPendingManager.String() {
			return nil
		}
		emp, err := employees.FindByIDAndCompany(ctx, event.CompanyID, event.EmployeeID)
		if err != nil {
			return err
		}
		mgr, err := employees.FindByIDAndCompany(ctx, event.CompanyID, event.ManagerID)
		if err != nil {
			return err
		}
		subject, body := notification.NewRequestMessage(emp.FullName, event.LeaveType, event.StartDate, event.EndDate, event.TotalDays)
		enqueue(queue, mgr, subject, body)
		return nil

	case events.LeaveManagerDecided:
		if event.Status == leave.StatusPendingHR.String() {
			emp, err := employees.FindByIDAndCompany(ctx, event.CompanyID, event.EmployeeID)
			if err != nil {
				return err
			}
			roster, err := employees.ListHRRecipients(ctx, event.CompanyID)
			if err != nil {
				return err
			}
			subject, body := notification.ManagerActionToHRMessage(emp.FullName, event.LeaveType, event.StartDate, event.EndDate, event.TotalDays)
			for i := range roster {
				enqueue(queue, &roster[i], subject, body)
			}
			return nil
		}
		return notifyEmployeeDecision(ctx, event, employees, queue)

	case events.LeaveHRDecided:
		return notifyEmployeeDecision(ctx, event, employees, queue)

	case events.LeaveCancelled:
		emp, err := employees.FindByIDAndCompany(ctx, event.CompanyID, event.EmployeeID)
		if err != nil {
			return err
		}
		subject, body := notification.CancelledMessage(event.LeaveType, event.StartDate, event.EndDate)
		enqueue(queue, emp, subject, body)
		return nil

	default:
		log.Warn("unknown leave lifecycle event type, skipping",
			zap.String("event_type", event.EventType),
		)
		return nil
	}
}

func notifyEmployeeDecision(
	ctx context.Context,
	event events.LeaveLifecycleEvent,
	employees employee.Repository,
	queue notification.Enqueuer,
) error {
	emp, err := employees.FindByIDAndCompany(ctx, event.CompanyID, event.EmployeeID)
	if err != nil {
		return err
	}
	approved := event.Status == leave.StatusApproved.String()
	subject, body := notification.StatusUpdateMessage(event.LeaveType, event.StartDate, event.EndDate, approved, "")
	enqueue(queue, emp, subject, body)
	return nil
}

func enqueue(queue notification.Enqueuer, e *employee.Employee, subject, body string) {
	queue.TryEnqueue(notification.WorkItem{
		RecipientID:    e.ID.String(),
		RecipientEmail: e.Email,
		RecipientName:  e.FullName,
		Subject:        subject,
		Body:           body,
	})
}
