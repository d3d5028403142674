package main

// Exit codes shared by all refdesk commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing config, not a repository)
	ExitDataError   = 3 // Data error (malformed input, validation failure)
	ExitDuplicate   = 4 // Duplicate detected and left for a human decision
	ExitRejected    = 5 // Result rejected (below confidence threshold)

	// Scholar API exit codes
	ExitScholarNotFound  = 1 // Resource not found
	ExitScholarAuthError = 2 // Missing or invalid SCHOLAR_API_KEY
	ExitScholarAPIError  = 3 // API error (rate limit, network)
)
