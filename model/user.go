package model

// User is an authenticated signing principal. The transport layer builds it
// from a verified credential; the core only ever looks at Key.
type User struct {
	Key  Pubkey `json:"key"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
