// Package models contains data structures for the application's domain models.
package models

import "time"

// Follow is a directed edge meaning the follower's following-feed includes the
// author's posts. The composite unique index makes duplicate edges impossible
// at the storage layer, so edge creation can rely on ON CONFLICT DO NOTHING
// instead of read-then-write.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;index;uniqueIndex:idx_follows_follower_author" json:"follower_id"`
	AuthorID   uint      `gorm:"not null;index;uniqueIndex:idx_follows_follower_author" json:"author_id"`
	Follower   User      `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Author     User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Follow) TableName() string {
	return "follows"
}
