package lightning

import (
	"fmt"
	"strings"

	portsout "billbridge/internal/application/ports/out"
	apperrors "billbridge/internal/shared_kernel/errors"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightningnetwork/lnd/zpay32"
)

// InvoiceDecoder reads the amount out of BOLT-11 payment requests for a
// single bitcoin network.
type InvoiceDecoder struct {
	params *chaincfg.Params
}

var _ portsout.InvoiceDecoder = (*InvoiceDecoder)(nil)

func NewInvoiceDecoder(network string) (*InvoiceDecoder, error) {
	params, err := NetworkParams(network)
	if err != nil {
		return nil, err
	}
	return &InvoiceDecoder{params: params}, nil
}

func NetworkParams(network string) (*chaincfg.Params, error) {
	switch strings.ToLower(strings.TrimSpace(network)) {
	case "", "mainnet", "bitcoin":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "simnet":
		return &chaincfg.SimNetParams, nil
	default:
		return nil, fmt.Errorf("unsupported lightning network %q", network)
	}
}

func (d *InvoiceDecoder) AmountMsat(invoice string) (int64, *apperrors.AppError) {
	decoded, err := zpay32.Decode(strings.TrimSpace(invoice), d.params)
	if err != nil {
		return 0, apperrors.New(
			apperrors.CodeInvalidInvoiceAmount,
			"invoice could not be decoded",
			map[string]any{"error": err.Error(), "network": d.params.Name},
		)
	}
	if decoded.MilliSat == nil || *decoded.MilliSat == 0 {
		return 0, apperrors.New(apperrors.CodeInvalidInvoiceAmount, "invoice has no amount", nil)
	}
	return int64(*decoded.MilliSat), nil
}
