package controller

import (
	"time"
)

// noticeSlot is the single transient status line shared by upload and indexing.
// Every write bumps the generation and cancels the pending clear, so a clear
// scheduled for an older write can never wipe a newer notice.
// All methods must be called with the controller lock held.
type noticeSlot struct {
	text  string
	gen   uint64
	timer *time.Timer
	after func(time.Duration, func()) *time.Timer
}

// set replaces the notice and cancels any scheduled clear
func (n *noticeSlot) set(text string) uint64 {
	n.stop()
	n.text = text
	n.gen++
	return n.gen
}

// scheduleClear arranges for fire(gen) to run after ttl.
// fire must take the lock and call clearIf.
func (n *noticeSlot) scheduleClear(ttl time.Duration, fire func(gen uint64)) {
	n.stop()
	gen := n.gen
	after := n.after
	if after == nil {
		after = time.AfterFunc
	}
	n.timer = after(ttl, func() { fire(gen) })
}

// clearIf empties the slot when gen is still the latest write
func (n *noticeSlot) clearIf(gen uint64) bool {
	if gen != n.gen || n.text == "" {
		return false
	}
	n.text = ""
	n.timer = nil
	return true
}

func (n *noticeSlot) stop() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}
