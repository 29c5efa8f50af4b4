package dto

import "encoding/json"

// RegisterRequest is the raw registration payload. Salary and age are
// json.Number so clients may send either JSON numbers or numeric form
// strings; the service layer owns the actual coercion and validation.
type RegisterRequest struct {
	Username  string      `json:"username"`
	Password  string      `json:"password"`
	Firstname string      `json:"firstname"`
	Lastname  string      `json:"lastname"`
	Salary    json.Number `json:"salary"`
	Age       json.Number `json:"age"`
}

type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
