package models

import "time"

type Admin struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	AdminID      string    `json:"admin_id" db:"admin_id"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	PicKey *string `json:"-" db:"pic_key"`
}
