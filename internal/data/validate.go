// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package data implements pure validation, conversion, cleaning, and summary
// functions over strings, CSV, and JSON. None of them touch storage or the
// network.
package data

import (
	"regexp"
	"strings"
)

var (
	emailRe      = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	urlPrefixRe  = regexp.MustCompile("^https?://[^\\s<>\"{}|\\\\^`\\[\\]]+")
	phoneSepRe   = regexp.MustCompile(`[\s\-().]+`)
	usPhoneRe    = regexp.MustCompile(`^\+?1?\d{10}$`)
	intlPhoneRe  = regexp.MustCompile(`^\+?\d{7,15}$`)
	defaultPhone = "US"
)

// EmailResult reports an email format check.
type EmailResult struct {
	Valid   bool   `json:"valid"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ValidateEmail checks email against a fixed address pattern.
func ValidateEmail(email string) EmailResult {
	r := EmailResult{Valid: emailRe.MatchString(email), Email: email, Message: "Invalid email format"}
	if r.Valid {
		r.Message = "Valid email format"
	}
	return r
}

// URLResult reports a URL format check. Protocol and Domain are set only
// for valid URLs.
type URLResult struct {
	Valid    bool   `json:"valid"`
	URL      string `json:"url"`
	Message  string `json:"message"`
	Protocol string `json:"protocol,omitempty"`
	Domain   string `json:"domain,omitempty"`
}

// ValidateURL checks that u starts with an http(s) scheme followed by URL-safe
// characters.
func ValidateURL(u string) URLResult {
	r := URLResult{Valid: urlPrefixRe.MatchString(u), URL: u, Message: "Invalid URL format"}
	if !r.Valid {
		return r
	}
	r.Message = "Valid URL format"
	r.Protocol = "http"
	if strings.HasPrefix(u, "https") {
		r.Protocol = "https"
	}
	if parts := strings.Split(u, "/"); len(parts) > 2 {
		r.Domain = parts[2]
	}
	return r
}

// PhoneResult reports a phone number check.
type PhoneResult struct {
	Valid   bool   `json:"valid"`
	Phone   string `json:"phone"`
	Cleaned string `json:"cleaned"`
	Message string `json:"message"`
}

// ValidatePhone strips spaces, dashes, parentheses, and dots, then checks
// the digits. US numbers need ten digits with an optional +1 prefix; any
// other country code accepts 7 to 15 digits with an optional leading +.
func ValidatePhone(phone, countryCode string) PhoneResult {
	if countryCode == "" {
		countryCode = defaultPhone
	}
	cleaned := phoneSepRe.ReplaceAllString(phone, "")
	r := PhoneResult{Phone: phone, Cleaned: cleaned}

	if countryCode == defaultPhone {
		r.Valid = usPhoneRe.MatchString(cleaned)
		r.Message = "Invalid US phone number (need 10 digits)"
		if r.Valid {
			r.Message = "Valid US phone number"
		}
		return r
	}

	r.Valid = intlPhoneRe.MatchString(cleaned)
	r.Message = "Invalid phone format"
	if r.Valid {
		r.Message = "Valid phone format"
	}
	return r
}
