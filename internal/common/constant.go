package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token on
// protected requests.
const AuthorizationHeaderName = "Authorization"

// BearerSchemePrefix is the required prefix of the Authorization header value.
// Anything not starting with it is rejected before token parsing.
const BearerSchemePrefix = "Bearer "
