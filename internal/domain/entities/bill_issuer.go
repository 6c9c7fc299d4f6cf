package entities

import "strings"

// BillIssuer holds the settings an issuer publishes for its domain.
type BillIssuer struct {
	Domain        string
	Name          string
	LnAddress     string
	BillServerURL string
	PubKey        string
	LogoURL       string
}

// Username is the provider account that receives invoices. A lightning
// address contributes its local part.
func (i BillIssuer) Username() string {
	username, _, _ := strings.Cut(strings.TrimSpace(i.LnAddress), "@")
	return username
}
