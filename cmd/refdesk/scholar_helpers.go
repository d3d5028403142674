package main

import (
	"errors"

	"github.com/copilotlabs/refdesk/internal/config"
	"github.com/copilotlabs/refdesk/internal/scholar"
)

// exitScholarError maps a scholar client error to the right exit code
// and message, then exits. The what argument names the failed operation.
func exitScholarError(what string, err error) {
	switch {
	case errors.Is(err, scholar.ErrNotFound):
		exitWithError(ExitScholarNotFound, "%s: not found", what)
	case errors.Is(err, scholar.ErrAuthError):
		exitWithError(ExitScholarAuthError, "%s: %v\n\n%s", what, err, config.HelpfulConfigMessage())
	case errors.Is(err, scholar.ErrRateLimited):
		exitWithError(ExitScholarAPIError, "%s: rate limited, retry later", what)
	default:
		exitWithError(ExitScholarAPIError, "%s: %v", what, err)
	}
}

// conversationOrDefault resolves the conversation from the flag or the
// repository default, exiting if neither is set.
func conversationOrDefault(flag string, cfg *config.Config) string {
	if flag != "" {
		return flag
	}
	if cfg.DefaultConversation != "" {
		return cfg.DefaultConversation
	}
	exitWithError(ExitDataError, "no conversation given: pass --conversation or set default_conversation")
	return "" // unreachable
}
