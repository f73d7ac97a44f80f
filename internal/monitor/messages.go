package monitor

import (
	"time"

	"github.com/rileyhilliard/sysdash/internal/engine"
	"github.com/rileyhilliard/sysdash/internal/escalation"
)

// snapshotMsg carries one completed refresh cycle.
type snapshotMsg struct {
	snap engine.Snapshot
}

// noticeMsg carries a notice raised by the escalator.
type noticeMsg struct {
	notice escalation.Notice
}

// noticeExpiryMsg asks the model to drop transient notices that have aged out.
type noticeExpiryMsg time.Time

// engineStartedMsg reports the outcome of starting the engine.
type engineStartedMsg struct {
	err error
}
