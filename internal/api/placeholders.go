// Reelpick - Content-Based Movie Recommendation Service
// Copyright 2026 Reelpick contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package api

import (
	"github.com/reelpick/reelpick/internal/poster"
)

// Placeholder images substituted for unavailable posters. Each failure
// category maps to a distinct image so a rendered list shows what went wrong
// without breaking layout. Gray for the benign no-poster case, red for
// failures.
const (
	PlaceholderNoPoster   = "https://placehold.co/500x750/cccccc/000000?text=No+Poster"
	PlaceholderTimeout    = "https://placehold.co/500x750/ff0000/ffffff?text=Timeout+Error"
	PlaceholderConnection = "https://placehold.co/500x750/ff0000/ffffff?text=Connection+Error"
	PlaceholderRequest    = "https://placehold.co/500x750/ff0000/ffffff?text=API+Error"
	PlaceholderUnknown    = "https://placehold.co/500x750/ff0000/ffffff?text=Unknown+Error"
)

// placeholderFor maps a poster fetch error to its placeholder image URL.
func placeholderFor(err error) string {
	switch poster.KindOf(err) {
	case poster.KindNoPoster:
		return PlaceholderNoPoster
	case poster.KindTimeout:
		return PlaceholderTimeout
	case poster.KindConnection:
		return PlaceholderConnection
	case poster.KindRequest:
		return PlaceholderRequest
	default:
		return PlaceholderUnknown
	}
}
