package models

// Credential is one account of credentials.json.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)
