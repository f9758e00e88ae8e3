package naming

import (
	"fmt"
	"regexp"
	"strings"
)

// tokenPattern matches {name} style placeholders.
var tokenPattern = regexp.MustCompile(`\{(\w+)\}`)

// emptyBrackets matches () or [] left behind after empty tokens are removed,
// allowing whitespace inside.
var emptyBrackets = regexp.MustCompile(`\(\s*\)|\[\s*\]`)

// ApplyTemplate substitutes {token} placeholders from vars. Tokens with a
// missing or empty value are removed, along with any enclosing brackets that
// end up empty, then whitespace is collapsed and trimmed.
func ApplyTemplate(template string, vars map[string]string) string {
	out := tokenPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		return vars[name]
	})
	out = emptyBrackets.ReplaceAllString(out, "")
	out = multiSpace.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// ValidateTemplate checks that every token in the template is one of the
// allowed names. Unknown tokens are a configuration error, caught before any
// file is renamed.
func ValidateTemplate(template string, allowed []string) error {
	allowedSet := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		allowedSet[a] = true
	}

	var unknown []string
	for _, m := range tokenPattern.FindAllStringSubmatch(template, -1) {
		if !allowedSet[m[1]] {
			unknown = append(unknown, m[1])
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: {%s}", ErrUnknownToken, strings.Join(unknown, "}, {"))
	}
	return nil
}
