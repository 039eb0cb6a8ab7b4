package utils

import (
	"sync"
	"time"
)

var (
	moderationLocks = make(map[string]time.Time)
	moderationMutex = &sync.Mutex{}
)

const moderationLockDuration = 10 * time.Second

// CheckAndSetModerationLock checks if a target user is currently being
// processed by another moderation command. If not locked, it sets a new lock
// and returns true. If locked, it returns false.
func CheckAndSetModerationLock(userID string) bool {
	moderationMutex.Lock()
	defer moderationMutex.Unlock()

	if lastActionTime, ok := moderationLocks[userID]; ok {
		if time.Since(lastActionTime) < moderationLockDuration {
			return false // Locked
		}
	}

	moderationLocks[userID] = time.Now()
	return true // Not locked, new lock set
}

// ReleaseModerationLock clears the lock for a user once their command finishes.
func ReleaseModerationLock(userID string) {
	moderationMutex.Lock()
	defer moderationMutex.Unlock()
	delete(moderationLocks, userID)
}
