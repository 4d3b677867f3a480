package validation

import (
	"regexp"
	"strings"
	"unicode"
)

// ZeroAddress is the null recipient; minting to it is rejected.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// addressRe matches a 20-byte hex address with 0x prefix.
var addressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// certificateIDRe: 1-128 printable non-space characters (e.g. "CERT-001").
var certificateIDRe = regexp.MustCompile(`^[\x21-\x7e]{1,128}$`)

func IsValidAddress(address string) bool {
	return addressRe.MatchString(address)
}

func IsZeroAddress(address string) bool {
	return strings.EqualFold(address, ZeroAddress)
}

// IsValidRecipient returns true for a well-formed, non-zero address.
func IsValidRecipient(address string) bool {
	return IsValidAddress(address) && !IsZeroAddress(address)
}

func IsValidCertificateID(id string) bool {
	return certificateIDRe.MatchString(id)
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Fullname: letters, spaces, hyphens, apostrophes only.
var fullnameRe = regexp.MustCompile(`^[A-Za-z\s\-']+$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsValidPassword requires at least 8 characters with a letter, a number and
// a special character.
func IsValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter, hasDigit, hasSpecial := false, false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	return hasLetter && hasDigit && hasSpecial
}

func IsValidFullname(fullname string) bool {
	return fullname != "" && fullnameRe.MatchString(fullname)
}
