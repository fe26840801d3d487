package models

import "time"

// User is an operator account allowed to manage decanting records.
type User struct {
	Username     string    `bson:"_id" json:"username"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}
