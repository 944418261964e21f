package services

import "github.com/courseforge/backend/internal/apperrors"

// requireCaller checks that a caller identity is present
func requireCaller(callerID string) error {
	if callerID == "" {
		return apperrors.ErrUnauthenticated
	}
	return nil
}

// authorize checks that the caller owns the target resource. The caller must
// already have passed requireCaller; authorize only answers the ownership
// question, so the denial message never reveals which check failed.
func authorize(callerID, ownerID string) error {
	if callerID != ownerID {
		return apperrors.ErrForbidden
	}
	return nil
}
