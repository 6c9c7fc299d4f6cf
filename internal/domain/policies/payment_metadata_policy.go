package policies

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	apperrors "billbridge/internal/shared_kernel/errors"
)

type PaymentMetadata struct {
	Identifier      string
	Document        string
	DescriptionHash string
}

func PaymentIdentifier(domain, reference string) string {
	return reference + "@" + domain
}

// BuildPaymentMetadata renders the LNURL-pay metadata array and the SHA-256
// hash that the issued invoice must commit to. HTML characters in the
// description are written as-is.
func BuildPaymentMetadata(domain, reference, description string) (PaymentMetadata, *apperrors.AppError) {
	identifier := PaymentIdentifier(domain, reference)

	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode([][]string{
		{"text/plain", description},
		{"text/identifier", identifier},
	}); err != nil {
		return PaymentMetadata{}, apperrors.NewInternal(
			"payment_metadata_encode_failed",
			"failed to encode payment metadata",
			map[string]any{"error": err.Error()},
		)
	}
	document := bytes.TrimSuffix(buffer.Bytes(), []byte("\n"))

	sum := sha256.Sum256(document)
	return PaymentMetadata{
		Identifier:      identifier,
		Document:        string(document),
		DescriptionHash: hex.EncodeToString(sum[:]),
	}, nil
}
