package handler

// dataEnvelope is the standard success shape for single-entity responses.
type dataEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// listEnvelope is the standard success shape for collection responses.
type listEnvelope struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Data    any  `json:"data"`
}

// userView is the public projection of a user returned by the auth
// endpoints. The password hash never appears in any response.
type userView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// authEnvelope pairs the token with the public user projection.
type authEnvelope struct {
	Success bool     `json:"success"`
	Token   string   `json:"token"`
	User    userView `json:"user"`
}
