package utils

import (
	"regexp"
)

// policyIDPattern matches identifiers safe to use in file names and flags:
// alphanumeric start, then alphanumerics, hyphens, or underscores.
var policyIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// IsValidPolicyID checks if a policy id is valid (alphanumeric, hyphens, underscores).
func IsValidPolicyID(id string) bool {
	if id == "" {
		return false
	}
	return policyIDPattern.MatchString(id)
}
