package domain

import "fmt"

// HeaderCheck decides what happens when a file's header differs from the
// schema already stored for its record type.
type HeaderCheck string

const (
	HeaderCheckIgnore HeaderCheck = "ignore"
	HeaderCheckWarn   HeaderCheck = "warn"
	HeaderCheckReject HeaderCheck = "reject"
)

func ParseHeaderCheck(s string) (HeaderCheck, error) {
	switch c := HeaderCheck(s); c {
	case HeaderCheckIgnore, HeaderCheckWarn, HeaderCheckReject:
		return c, nil
	case "":
		return HeaderCheckIgnore, nil
	default:
		return "", fmt.Errorf("unknown header check %q, want %q, %q or %q",
			s, HeaderCheckIgnore, HeaderCheckWarn, HeaderCheckReject)
	}
}
