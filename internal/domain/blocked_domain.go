package domain

// BlockedDomain is a blocklist entry. Domain is either a hostname or a
// wildcard pattern of the form "*.suffix".
type BlockedDomain struct {
	Domain string
	Reason *string
}

// GlobalSettings are the instance-wide switches read by the admission pipeline.
type GlobalSettings struct {
	RequireEmailVerification bool
}
