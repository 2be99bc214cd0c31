package leaveerrors

import (
	"net/http"

	"go-leavedesk/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end date must not be before start date",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"dates must use the YYYY-MM-DD format",
		http.StatusBadRequest,
	)
	ErrNoteTooLong = apperror.New(
		apperror.CodeInvalidInput,
		"note must not exceed 1000 characters",
		http.StatusBadRequest,
	)
	ErrAttachmentURLTooLong = apperror.New(
		apperror.CodeInvalidInput,
		"attachment url must not exceed 500 characters",
		http.StatusBadRequest,
	)
	ErrNoManagerAssigned = apperror.New(
		apperror.CodeInvalidInput,
		"employee has no assigned manager to route the request to",
		http.StatusUnprocessableEntity,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"an active leave request already covers part of this period",
		http.StatusConflict,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"the request is not in a state that allows this action",
		http.StatusConflict,
	)
	ErrNotAssignedManager = apperror.New(
		apperror.CodeForbidden,
		"only the assigned manager may decide this request",
		http.StatusForbidden,
	)
	ErrCancelNotAllowed = apperror.New(
		apperror.CodeForbidden,
		"only the request owner or an authorized override may cancel",
		http.StatusForbidden,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
)
