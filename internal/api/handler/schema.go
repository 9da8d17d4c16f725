package handler

// Request/response types owned by the transport layer. The request bodies
// are decoded into raw maps before validation (the declared rule sets are
// strict about unknown fields), so the request structs here document the
// JSON contract for swagger rather than drive binding.

type registerRequest struct {
	Name     string `json:"name"     example:"Jean Dupont"`
	Email    string `json:"email"    example:"jean@example.com"`
	Password string `json:"password" example:"Secure1!abc"`
	Age      int    `json:"age"      example:"30"`
}

type loginRequest struct {
	Email    string `json:"email"    example:"jean@example.com"`
	Password string `json:"password" example:"Secure1!abc"`
}

// tokenResponse is the success body for register and login. Register
// deliberately returns only the token, never the created record.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// errorResponse mirrors the central error handler's envelope for swagger.
type errorResponse struct {
	Error    string   `json:"error"`
	Messages []string `json:"messages,omitempty"`
}
