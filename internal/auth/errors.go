// Package auth implements the identity subsystem: password hashing, signed
// session tokens, signup/login orchestration and the ownership rule applied
// to mutations. Every failure mode is a sentinel value so handlers can map
// outcomes to HTTP statuses without string matching.
package auth

import "errors"

// ErrEmailExists is returned by Signup when the email is already registered.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when no account matches the given email or id.
var ErrNotFound = errors.New("account not found")

// ErrInvalidCredentials is returned when the password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrTokenMalformed is returned for tokens that cannot be parsed at all:
// wrong segment count, bad base64, unexpected signing algorithm.
var ErrTokenMalformed = errors.New("token malformed")

// ErrTokenSignatureInvalid is returned when the payload does not match its
// signature, i.e. the token was tampered with or signed with another key.
var ErrTokenSignatureInvalid = errors.New("token signature invalid")

// ErrTokenExpired is returned for structurally valid, correctly signed tokens
// whose expiry is in the past.
var ErrTokenExpired = errors.New("token expired")

// ErrForbidden is returned by the ownership guard when the caller is not the
// owner of the target resource.
var ErrForbidden = errors.New("forbidden")
