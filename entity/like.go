package entity

import "time"

// Like is one (model, user) pair. The composite unique index enforces at most
// one like per user per model.
type Like struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	ModelID   uint      `gorm:"column:model_id;uniqueIndex:idx_model_user_like" json:"model_id"`
	UserID    string    `gorm:"column:user_id;size:64;uniqueIndex:idx_model_user_like" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}
