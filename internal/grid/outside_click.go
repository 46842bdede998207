package grid

// OutsideClick is a single deferred check. Scheduling replaces any pending
// check; only the latest ticket fires.
type OutsideClick struct {
	seq     uint64
	pending uint64
}

// Schedule arms a new check and returns its ticket.
func (o *OutsideClick) Schedule() uint64 {
	o.seq++
	o.pending = o.seq
	return o.seq
}

// Cancel disarms the pending check.
func (o *OutsideClick) Cancel() { o.pending = 0 }

// Pending reports whether a check is armed.
func (o *OutsideClick) Pending() bool { return o.pending != 0 }

// Fire consumes ticket. It returns true only for the armed ticket.
func (o *OutsideClick) Fire(ticket uint64) bool {
	if ticket == 0 || ticket != o.pending {
		return false
	}
	o.pending = 0
	return true
}
