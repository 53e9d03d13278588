package platform

import (
	"fmt"
	"strings"
)

// Conventional Commit types used for versioned change reasons.
const (
	CommitTypeFeat     = "feat"
	CommitTypeFix      = "fix"
	CommitTypeDocs     = "docs"
	CommitTypeRefactor = "refactor"
	CommitTypeChore    = "chore"
)

// Footer marks commits written by minddump.
const Footer = "Powered-by: minddump"

// FormatChangeReason builds a Conventional Commit message:
//
//	type(scope): subject
//
//	body
//
//	Powered-by: minddump
func FormatChangeReason(ctype, scope, subject, body string) string {
	if ctype == "" {
		ctype = CommitTypeDocs
	}
	header := ctype
	if scope != "" {
		header = fmt.Sprintf("%s(%s)", ctype, scope)
	}
	msg := fmt.Sprintf("%s: %s", header, strings.TrimSpace(subject))
	if body = strings.TrimSpace(body); body != "" {
		msg += "\n\n" + body
	}
	return AppendFooter(msg)
}

// AppendFooter appends the minddump footer unless already present.
func AppendFooter(msg string) string {
	if strings.Contains(msg, Footer) {
		return msg
	}
	return strings.TrimRight(msg, "\n") + "\n\n" + Footer
}
