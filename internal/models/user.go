package models

import "time"

// User represents a platform account stored in the users table.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"realname"`
	Country      string    `db:"country" json:"-"`
	IsStaff      bool      `db:"is_staff" json:"is_staff"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserPreference records a per-user, per-organization preference such as the
// enrollment email opt-in.
type UserPreference struct {
	UserID    string    `db:"user_id" json:"user_id"`
	Org       string    `db:"org" json:"org"`
	Key       string    `db:"pref_key" json:"key"`
	Value     string    `db:"pref_value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PrefEmailOptIn is the preference key for enrollment email opt-ins.
const PrefEmailOptIn = "email-optin"
