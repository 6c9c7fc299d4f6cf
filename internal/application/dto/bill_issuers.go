package dto

import "billbridge/internal/domain/entities"

type ResolveSettingsQuery struct {
	Domain string
}

type BillIssuerResource struct {
	Domain        string `json:"domain"`
	Name          string `json:"name"`
	LnAddress     string `json:"ln_address"`
	BillServerURL string `json:"bill_server_url"`
	PubKey        string `json:"pubkey,omitempty"`
	LogoURL       string `json:"logo_url,omitempty"`
}

func NewBillIssuerResource(issuer entities.BillIssuer) BillIssuerResource {
	return BillIssuerResource{
		Domain:        issuer.Domain,
		Name:          issuer.Name,
		LnAddress:     issuer.LnAddress,
		BillServerURL: issuer.BillServerURL,
		PubKey:        issuer.PubKey,
		LogoURL:       issuer.LogoURL,
	}
}
