package services

import "time"

func (j *PendingExpiryJob) SetClock(now func() time.Time) { j.now = now }
