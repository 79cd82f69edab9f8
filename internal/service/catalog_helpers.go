package service

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// cleanText strips markup from admin supplied catalog text.
func cleanText(policy *bluemonday.Policy, value string) string {
	return strings.TrimSpace(policy.Sanitize(strings.TrimSpace(value)))
}

func uintPtr(v uint) *uint {
	return &v
}
