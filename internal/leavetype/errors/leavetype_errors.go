package leavetypeerrors

import (
	"net/http"

	"go-leavedesk/internal/shared/apperror"
)

var (
	ErrUnknownLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"unknown leave type",
		http.StatusBadRequest,
	)
	ErrConfigNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type configuration not found",
		http.StatusNotFound,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidThreshold = apperror.New(
		apperror.CodeInvalidInput,
		"auto_approve_max_days must be zero or positive",
		http.StatusBadRequest,
	)
	ErrInvalidAllotment = apperror.New(
		apperror.CodeInvalidInput,
		"default_allotment_days must be zero or positive",
		http.StatusBadRequest,
	)
)
