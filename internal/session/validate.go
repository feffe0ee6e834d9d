package session

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError rejects bad flagging input before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// victimAddressPattern is a 20-byte hex address with 0x prefix,
// matched exactly.
var victimAddressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// FlagInput is the flagging form content.
type FlagInput struct {
	Content       string
	Link          string
	VictimInfo    string
	VictimAddress string
}

func (in FlagInput) validate() error {
	if strings.TrimSpace(in.Content) == "" {
		return &ValidationError{Field: "postContent", Reason: "post content is required"}
	}
	if strings.TrimSpace(in.VictimInfo) == "" {
		return &ValidationError{Field: "victimInfo", Reason: "victim info is required"}
	}
	if addr := strings.TrimSpace(in.VictimAddress); addr != "" && !victimAddressPattern.MatchString(addr) {
		return &ValidationError{Field: "victimEthAddress", Reason: "must be 0x followed by 40 hex characters"}
	}
	return nil
}
