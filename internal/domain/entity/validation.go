package entity

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Comment validation messages shown to the user.
const (
	MsgRequired      = "This field is required."
	MsgCommentShort  = "Your comment is too short"
	MsgCommentProfan = "Your comment must not contain profanity"
)

// MinCommentLength is the minimum comment length in characters.
const MinCommentLength = 4

// Rule is one step of a validation pipeline: Check returns true when value is acceptable.
// A failing rule with Stop set ends the pipeline.
type Rule struct {
	Check   func(value string) bool
	Message string
	Stop    bool
}

// ProfanityChecker reports whether a text contains profanity.
type ProfanityChecker interface {
	IsProfane(text string) bool
}

// Required accepts any value that is not blank. Nothing else is checked on a blank value.
func Required(message string) Rule {
	return Rule{
		Check:   func(v string) bool { return strings.TrimSpace(v) != "" },
		Message: message,
		Stop:    true,
	}
}

// MinLength accepts values with at least n characters.
func MinLength(n int, message string) Rule {
	return Rule{
		Check:   func(v string) bool { return utf8.RuneCountInString(v) >= n },
		Message: message,
	}
}

// ProfanityFree rejects values the checker flags as profane.
func ProfanityFree(checker ProfanityChecker, message string) Rule {
	return Rule{
		Check:   func(v string) bool { return !checker.IsProfane(v) },
		Message: message,
	}
}

// CommentRules returns the ordered rules applied to comment text.
func CommentRules(checker ProfanityChecker) []Rule {
	return []Rule{
		Required(MsgRequired),
		MinLength(MinCommentLength, MsgCommentShort),
		ProfanityFree(checker, MsgCommentProfan),
	}
}

// Validate runs rules in order against value and collects one *ValidationError
// per failing rule, stopping early only at a failing Stop rule.
// Several failures are returned joined; FieldMessages lists them all.
// It returns nil when every rule passes.
func Validate(field, value string, rules []Rule) error {
	var errs []error
	for _, r := range rules {
		if r.Check(value) {
			continue
		}
		errs = append(errs, &ValidationError{Field: field, Message: r.Message})
		if r.Stop {
			break
		}
	}
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}
