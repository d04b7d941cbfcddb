package testutil

import (
	"net/http"
	"time"

	id "accredit/pkg/domain"
	"accredit/pkg/requestcontext"
)

// WithUserID marks the request as authenticated for userID, the way the auth
// middleware would.
func WithUserID(req *http.Request, userID id.UserID) *http.Request {
	return req.WithContext(requestcontext.WithUserID(req.Context(), userID))
}

// WithClock pins the request time seen by services.
func WithClock(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
