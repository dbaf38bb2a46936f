// Package validator holds the stateless input rules that run at the request
// boundary, before any hashing or persistence.
package validator

import (
    "net/mail"
    "strings"
    "unicode"
)

// Result reports whether a value passed validation.  Message carries the
// human-readable reason on rejection and is safe to return to clients.
type Result struct {
    Valid   bool
    Message string
}

// ValidateEmail rejects empty values and addresses that do not match the
// standard email grammar.
func ValidateEmail(email string) Result {
    email = strings.TrimSpace(email)
    if email == "" {
        return Result{Message: "Email is required."}
    }
    if _, err := mail.ParseAddress(email); err != nil {
        return Result{Message: "Invalid email format."}
    }
    return Result{Valid: true}
}

// ValidatePassword enforces the password strength policy: minimum length 6,
// at least two digits and at least one symbol.  Case is not enforced.
func ValidatePassword(password string) Result {
    if password == "" {
        return Result{Message: "Password is required."}
    }
    digits, symbols := 0, 0
    for _, ch := range password {
        switch {
        case unicode.IsDigit(ch):
            digits++
        case !unicode.IsLetter(ch) && !unicode.IsSpace(ch):
            symbols++
        }
    }
    if len(password) < 6 || digits < 2 || symbols < 1 {
        return Result{Message: "Password must be at least 6 characters long and contain at least one special character and two numbers."}
    }
    return Result{Valid: true}
}
