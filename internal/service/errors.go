package service

import (
	"errors"

	"project-planner-api/internal/docstore"
	"project-planner-api/internal/domain"
	"project-planner-api/internal/response"
)

// toAppError translates store and domain errors into AppErrors the handlers can map
func toAppError(err error, notFoundMessage string) error {
	if err == nil {
		return nil
	}

	var appErr *response.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var validationErr *domain.ValidationError
	var corruptErr *domain.CorruptDocumentError
	var persistenceErr *domain.PersistenceError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return response.NewNotFoundError(notFoundMessage, "")
	case errors.Is(err, domain.ErrAlreadyExists):
		return response.NewAppError(response.ErrCodeAlreadyExists, "Project already exists", "")
	case errors.As(err, &validationErr):
		return response.NewValidationError(validationErr.Error(), "")
	case errors.As(err, &corruptErr):
		return response.NewAppError(response.ErrCodeDataCorrupted, "Stored project data is corrupted", corruptErr.Error())
	case errors.As(err, &persistenceErr):
		return response.NewAppError(response.ErrCodePersistence, "Failed to persist data", persistenceErr.Error())
	case errors.Is(err, docstore.ErrClosed):
		return response.NewInternalError("Service is shutting down", err.Error())
	default:
		return response.NewInternalError("Internal server error", err.Error())
	}
}

func notFound(message string) error {
	return response.NewNotFoundError(message, "")
}
