// Reelpick - Content-Based Movie Recommendation Service
// Copyright 2026 Reelpick contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package poster

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
)

// Kind classifies a poster fetch failure. Each kind maps to a distinct
// placeholder image at the presentation layer; the mapping itself lives with
// the caller, not here.
type Kind int

const (
	// KindNoPoster indicates a successful response without a poster_path.
	KindNoPoster Kind = iota
	// KindTimeout indicates the request exceeded the client timeout.
	KindTimeout
	// KindConnection indicates a connection-level failure (unreachable
	// host, refused or reset connection, DNS failure).
	KindConnection
	// KindRequest indicates any other request-related failure: bad status
	// code, malformed URL, undecodable response body.
	KindRequest
	// KindUnknown indicates an unexpected failure outside the categories
	// above.
	KindUnknown
)

// String returns the metric/log label for the failure kind.
func (k Kind) String() string {
	switch k {
	case KindNoPoster:
		return "no_poster"
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection"
	case KindRequest:
		return "request"
	case KindUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// FetchError is a classified poster fetch failure.
type FetchError struct {
	// Kind is the failure category.
	Kind Kind

	// MovieID is the movie the fetch was for.
	MovieID int

	// Err is the underlying cause, nil for KindNoPoster.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("poster fetch for movie %d: %s", e.MovieID, e.Kind)
	}
	return fmt.Sprintf("poster fetch for movie %d: %s: %v", e.MovieID, e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from an error returned by FetchPoster.
// Errors that are not a FetchError classify as KindUnknown.
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// classifyTransport maps an error from http.Client.Do to a failure kind.
// Timeouts are checked first: a timed-out connection attempt surfaces as
// both a net.Error timeout and an OpError, and the timeout category wins.
func classifyTransport(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return KindTimeout
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return KindTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindConnection
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindConnection
	}

	if urlErr != nil {
		return KindRequest
	}
	return KindUnknown
}
