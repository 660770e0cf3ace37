package x402

// IsWithinWindow reports whether now falls inside the authorization's
// validity window. Both boundaries are inclusive, matching the on-chain
// transferWithAuthorization checks.
func IsWithinWindow(validAfter, validBefore, now int64) bool {
	return now >= validAfter && now <= validBefore
}
