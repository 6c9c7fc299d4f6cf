package http

import (
	"strings"

	"billbridge/internal/domain/entities"
	apperrors "billbridge/internal/shared_kernel/errors"
)

const issuerSubdomain = "blink"

// Registry holds the issuer settings known to this deployment, keyed by
// normalized domain.
type Registry struct {
	issuers map[string]entities.BillIssuer
}

func NewRegistry(issuers []entities.BillIssuer) *Registry {
	registry := &Registry{issuers: make(map[string]entities.BillIssuer, len(issuers))}
	for _, issuer := range issuers {
		domain := normalizeDomain(issuer.Domain)
		if domain == "" {
			continue
		}
		issuer.Domain = domain
		registry.issuers[domain] = issuer
	}
	return registry
}

func (r *Registry) Resolve(domain string) (entities.BillIssuer, *apperrors.AppError) {
	domain = normalizeDomain(domain)
	var (
		issuer entities.BillIssuer
		ok     bool
	)
	if r != nil {
		issuer, ok = r.issuers[domain]
	}
	if !ok {
		return entities.BillIssuer{}, apperrors.New(
			apperrors.CodeBillIssuerNotFound,
			"bill issuer settings not found",
			map[string]any{"domain": domain},
		)
	}

	issuer.Name = strings.TrimSpace(issuer.Name)
	issuer.LnAddress = strings.TrimSpace(issuer.LnAddress)
	if issuer.Name == "" || issuer.LnAddress == "" {
		return entities.BillIssuer{}, apperrors.New(
			apperrors.CodeInvalidBillIssuerSettings,
			"bill issuer settings are missing required fields",
			map[string]any{"domain": domain},
		)
	}

	issuer.BillServerURL = strings.TrimRight(strings.TrimSpace(issuer.BillServerURL), "/")
	if issuer.BillServerURL == "" {
		issuer.BillServerURL = "https://" + issuerSubdomain + "." + domain + "/api"
	}
	return issuer, nil
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.issuers)
}

func normalizeDomain(domain string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(domain)), ".")
}
