package errors

import "errors"

var (
	// Caller errors, detected before any vendor call
	ErrUnauthenticated = errors.New("caller is not authenticated")
	ErrInvalidArgument = errors.New("invalid argument")

	// Vendor errors, collapsed to a generic internal failure at the wire
	ErrVerificationFailed      = errors.New("purchase verification failed")
	ErrMalformedVendorResponse = errors.New("malformed vendor response")

	// Store errors
	ErrEntitlementNotFound = errors.New("entitlement not found")
)
