package models

// UserForRegistrationDto is the payload of POST /api/authentication.
type UserForRegistrationDto struct {
	FirstName   string   `json:"firstName" xml:"FirstName" validate:"max=100"`
	LastName    string   `json:"lastName" xml:"LastName" validate:"max=100"`
	UserName    string   `json:"userName" xml:"UserName" validate:"required,max=256"`
	Password    string   `json:"password" xml:"Password" validate:"required"`
	Email       string   `json:"email" xml:"Email" validate:"required,email,max=256"`
	PhoneNumber string   `json:"phoneNumber" xml:"PhoneNumber" validate:"max=32"`
	Roles       []string `json:"roles" xml:"Roles>Role"`
}

// UserForAuthenticationDto is the payload of POST /api/authentication/login.
type UserForAuthenticationDto struct {
	UserName string `json:"userName" xml:"UserName" validate:"required"`
	Password string `json:"password" xml:"Password" validate:"required"`
}

// TokenDto carries an access token and the refresh token paired with it.
type TokenDto struct {
	AccessToken  string `json:"accessToken" xml:"AccessToken"`
	RefreshToken string `json:"refreshToken" xml:"RefreshToken"`
}
