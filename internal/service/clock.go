package service

import "time"

// Clock supplies timestamps for rows whose ordering the services own.
type Clock func() time.Time

// SystemClock is UTC at millisecond precision, the finest both drivers store.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// nextTimestamp returns now unless it does not move past floor, in which case it returns floor+1ms.
func nextTimestamp(now, floor time.Time) time.Time {
	if now.After(floor) {
		return now
	}
	return floor.Add(time.Millisecond)
}
