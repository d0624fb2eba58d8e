package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// EmployeeLoginKey returns the cache key holding an employee's active login JTI.
func (r *CacheKeyStruct) EmployeeLoginKey(employeeID int) string {
	return fmt.Sprintf("login:%d", employeeID)
}

// RankUpdatesChannel returns the PubSub channel carrying rank-recompute
// events for an exam, consumed by the admin live monitor.
func (r *CacheKeyStruct) RankUpdatesChannel(examID string) string {
	return fmt.Sprintf("exam:%s:rank_updates", examID)
}

var CacheKey = NewCacheKeyStruct()
