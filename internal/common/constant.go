package common

const (
	// AuthorizationHeader carries the access token on API requests.
	AuthorizationHeader = "Authorization"

	// BearerPrefix precedes the token inside AuthorizationHeader.
	BearerPrefix = "Bearer "

	// DateLayout is the wire format for calendar dates.
	DateLayout = "2006-01-02"
)
