package auth

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// PasswordPolicy lists the rules a new password must meet. A MaxBytes of
// zero, or above MaxPasswordBytes, means MaxPasswordBytes.
type PasswordPolicy struct {
	MinLength              int
	MaxBytes               int
	RequireDigit           bool
	RequireLowercase       bool
	RequireUppercase       bool
	RequireNonAlphanumeric bool
}

// DefaultPasswordPolicy asks for ten characters including a digit.
var DefaultPasswordPolicy = PasswordPolicy{MinLength: 10, RequireDigit: true}

// Check returns one message per unmet rule; nil means the password passes.
func (p PasswordPolicy) Check(password string) []string {
	var digit, lower, upper, other bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case !unicode.IsLetter(r):
			other = true
		}
	}

	var problems []string
	if len([]rune(password)) < p.MinLength {
		problems = append(problems, fmt.Sprintf("Passwords must be at least %d characters.", p.MinLength))
	}
	if maxBytes := p.maxBytes(); len(password) > maxBytes {
		problems = append(problems, fmt.Sprintf("Passwords must be at most %d bytes long.", maxBytes))
	}
	if p.RequireDigit && !digit {
		problems = append(problems, "Passwords must have at least one digit ('0'-'9').")
	}
	if p.RequireLowercase && !lower {
		problems = append(problems, "Passwords must have at least one lowercase ('a'-'z').")
	}
	if p.RequireUppercase && !upper {
		problems = append(problems, "Passwords must have at least one uppercase ('A'-'Z').")
	}
	if p.RequireNonAlphanumeric && !other {
		problems = append(problems, "Passwords must have at least one non alphanumeric character.")
	}
	return problems
}

func (p PasswordPolicy) maxBytes() int {
	if p.MaxBytes <= 0 || p.MaxBytes > MaxPasswordBytes {
		return MaxPasswordBytes
	}
	return p.MaxBytes
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
