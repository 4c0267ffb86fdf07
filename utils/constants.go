package utils

// Application constants
const (
	// Application name
	AppName = "ZapShift"

	// Greeting returned by GET /
	RootMessage = "zap shift server connected!"

	// Prefix of every tracking identifier
	TrackingPrefix = "PRCL"

	// Length of the random tracking suffix
	TrackingSuffixLength = 6
)

// Error messages
const (
	// Validation errors
	ErrInvalidParcelID  = "Invalid parcel ID"
	ErrInvalidPaymentID = "Invalid payment ID"
	ErrInvalidTracking  = "Invalid tracking ID"
	ErrInvalidBody      = "Invalid request body"
	ErrMissingSessionID = "session_id query parameter is required"

	// Lookup errors
	ErrParcelNotFound  = "Parcel not found"
	ErrPaymentNotFound = "Payment not found"
	ErrSessionNotFound = "Checkout session not found"

	// Payment errors
	ErrParcelAlreadyPaid   = "Parcel has already been paid for"
	ErrPaymentNotCompleted = "Payment has not been completed"
	ErrSessionInProgress   = "Payment confirmation is already in progress for this session"
	ErrSessionBadReference = "Checkout session does not reference a valid parcel"

	// Upstream errors
	ErrGatewayUnavailable = "Payment gateway unavailable"
	ErrDBUnavailable      = "Database unavailable"
	ErrLockUnavailable    = "Lock service unavailable"

	// Server errors
	ErrInternalServer = "Internal server error"
)
