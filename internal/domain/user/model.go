package user

// User is a person demands can be assigned to.
type User struct {
	ID     string  `json:"id" yaml:"id"`
	Name   string  `json:"name" yaml:"name"`
	Email  string  `json:"email" yaml:"email"`
	Avatar *string `json:"avatar,omitempty" yaml:"avatar,omitempty"`
}
