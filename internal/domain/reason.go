package domain

import "net/http"

// DenyReason is the client-visible classification for a refused request.
// The code is the only detail that ever leaves the server; domain lists,
// keys and stack traces stay in the server-side log.
type DenyReason string

const (
	ReasonRefererMissing     DenyReason = "REFERER_MISSING"
	ReasonIdentityInvalid    DenyReason = "IDENTITY_INVALID"
	ReasonLicenseExpired     DenyReason = "LICENSE_EXPIRED"
	ReasonLicenseCancelled   DenyReason = "LICENSE_CANCELLED"
	ReasonDomainUnauthorized DenyReason = "DOMAIN_UNAUTHORIZED"
	ReasonRateLimited        DenyReason = "RATE_LIMITED"
	ReasonInternal           DenyReason = "INTERNAL_ERROR"
)

func (r DenyReason) HTTPStatus() int {
	switch r {
	case ReasonRateLimited:
		return http.StatusTooManyRequests
	case ReasonInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusForbidden
	}
}
