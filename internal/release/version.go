package release

import (
	"fmt"
	"regexp"
)

// versionPattern is the strict X.Y.Z numeric form. Release candidates,
// betas, and two-segment versions are deliberately rejected.
var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Validate checks a version string against the strict major.minor.patch
// pattern and returns it as a Version. It runs on every path, including
// the default-latest path, because latest detection is a best-effort
// index read and can surface malformed tokens.
func Validate(s string) (Version, error) {
	if !versionPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q (expected X.Y.Z)", ErrInvalidVersionFormat, s)
	}
	return Version(s), nil
}

// PromptOrDefault returns the user's input verbatim, or the detected
// latest version when input is empty. The result is unvalidated; callers
// must pass it through Validate.
func PromptOrDefault(latest Version, userInput string) string {
	if userInput == "" {
		return latest.String()
	}
	return userInput
}
