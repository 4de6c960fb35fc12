package models

import "time"

// Follow is a directed edge in the social graph: follower -> following.
// A single join row per edge; the unique index keeps concurrent toggles
// from duplicating it.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_following"`
	FollowingID uint      `json:"following_id" gorm:"index;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"created_at"`
}
