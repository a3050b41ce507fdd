// Package redact scrubs credentials and storage internals from strings
// before they are logged. Postgres errors routinely echo the connection URL
// and the failing statement; neither belongs in a log line.
package redact

import (
	"net/url"
	"regexp"
)

// Placeholders substituted for redacted fragments.
const (
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	SQLPlaceholder        = "[REDACTED_SQL]"
	PathPlaceholder       = "[REDACTED_PATH]"
)

// dsnPassword replaces the password of DSNs rendered by DSN.
const dsnPassword = "REDACTED"

type rule struct {
	re   *regexp.Regexp
	repl string
}

// Applied in order; the userinfo rule must run before the path rule.
var rules = []rule{
	{
		re:   regexp.MustCompile(`(?i)\b(postgres(?:ql)?|pgx)://[^@\s/]+@`),
		repl: "${1}://" + CredentialPlaceholder + "@",
	},
	{
		re:   regexp.MustCompile(`(?i)\b(password|passwd|pwd)\s*[=:]\s*[^&\s'"]+`),
		repl: "${1}=" + CredentialPlaceholder,
	},
	{
		re: regexp.MustCompile(
			`(?i)\b(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)\b[\s\w,*().=$?'"]+\b(FROM|INTO|SET|TABLE|INDEX)\b[\s\w,*().=$?'"]*`,
		),
		repl: SQLPlaceholder,
	},
	{
		re:   regexp.MustCompile(`(?:^|\s)(/[\w.-]+){2,}`),
		repl: " " + PathPlaceholder,
	},
}

// String returns s with credentials, SQL fragments and absolute paths
// replaced by placeholders.
func String(s string) string {
	for _, r := range rules {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return s
}

// Error is String applied to err.Error(). A nil error yields "".
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// DSN renders a connection URL safe for logging: a password in the userinfo
// or in the query string is replaced. Plain file paths pass through.
func DSN(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return CredentialPlaceholder
	}
	if u.Scheme == "" {
		return raw
	}
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), dsnPassword)
		}
	}
	q := u.Query()
	if q.Has("password") {
		q.Set("password", dsnPassword)
		u.RawQuery = q.Encode()
	}
	return u.String()
}
