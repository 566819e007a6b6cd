package errorx

type Code int

// Unknown is returned when the store or another collaborator failed in an
// unexpected way. The caused error is logged, never surfaced to users.
var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	// Common codes
	BadRequest       Code = 100001
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Internal         Code = 100007
	Unavailable      Code = 100008

	// Economy codes
	AlreadyOwned      Code = 200001
	PoolEmpty         Code = 200002
	InsufficientFunds Code = 200003
	TooSoon           Code = 200004
)
