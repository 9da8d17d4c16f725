package domain

import "time"

// User is the persisted account record. PasswordHash never leaves the
// process: the json tag guards against accidental serialization and every
// read endpoint goes through PublicUser.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Age          int       `json:"age"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the projection of User exposed on every read path.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

// Public returns the exposable projection of the record.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Age:   u.Age,
	}
}
