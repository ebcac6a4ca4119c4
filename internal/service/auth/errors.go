package auth

import (
	"errors"
	"fmt"
)

// Token errors. Every validation failure wraps ErrInvalidToken so callers
// that only care about "authenticated or not" can match a single sentinel,
// while logs keep the specific reason.
var (
	// ErrInvalidToken indicates the token cannot be trusted.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired.
	ErrExpiredToken = fmt.Errorf("%w: token has expired", ErrInvalidToken)

	// ErrTokenNotYetValid indicates the token is not yet valid (iat/nbf in the future).
	ErrTokenNotYetValid = fmt.Errorf("%w: token not yet valid", ErrInvalidToken)

	// ErrMalformedToken indicates the token is not a well-formed JWT or its
	// claims cannot be decoded.
	ErrMalformedToken = fmt.Errorf("%w: malformed token", ErrInvalidToken)

	// ErrInvalidSignature indicates the signature does not match.
	ErrInvalidSignature = fmt.Errorf("%w: signature mismatch", ErrInvalidToken)

	// ErrUnsupportedToken indicates a signing method or format we do not accept.
	ErrUnsupportedToken = fmt.Errorf("%w: unsupported token", ErrInvalidToken)

	// ErrInvalidIssuer indicates the token was issued by someone else.
	ErrInvalidIssuer = fmt.Errorf("%w: unexpected issuer", ErrInvalidToken)

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrPasswordMismatch indicates a plaintext password does not match its hash.
	ErrPasswordMismatch = errors.New("password does not match")
)
