package clinic

// NextStatus advances an appointment status one step around the cycle
// pending -> confirmed -> completed -> pending. Anything unrecognized is
// pulled back to pending.
func NextStatus(s Status) Status {
	switch s {
	case StatusPending:
		return StatusConfirmed
	case StatusConfirmed:
		return StatusCompleted
	default:
		return StatusPending
	}
}
