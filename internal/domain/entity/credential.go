package entity

// Credentials is the vendor token set. Access and refresh tokens rotate;
// the client pair is fixed per installation.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	ClientID     string
	ClientSecret string
}

// CanRefresh reports whether a refresh_token grant can be attempted.
func (c *Credentials) CanRefresh() bool {
	return c.RefreshToken != "" && c.ClientID != "" && c.ClientSecret != ""
}
