package models

type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Username     string `json:"username" gorm:"size:80;uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"size:200;not null"`
}

// Follow is a directed edge: FollowerID follows FollowedID.
type Follow struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	FollowerID uint `json:"follower_id" gorm:"not null;uniqueIndex:idx_follower_followed"`
	FollowedID uint `json:"followed_id" gorm:"not null;uniqueIndex:idx_follower_followed;index"`
}

func (User) TableName() string {
	return "users"
}

func (Follow) TableName() string {
	return "follows"
}
