package transaction

import (
	"fmt"

	"freightops/internal/pkg/errs"
)

// PartyType classifies the external party a transaction hands cargo over to
// or receives cargo from.
type PartyType int

const (
	// PartyTypeUnknown represents an invalid or undefined party type.
	PartyTypeUnknown PartyType = iota

	// PartyTypeForwarder is a freight forwarder collecting outbound cargo.
	PartyTypeForwarder

	// PartyTypeConsignee is the cargo owner's receiving party.
	PartyTypeConsignee

	// PartyTypeShipper is the party delivering cargo for inbound flows.
	PartyTypeShipper
)

func getPartyTypeStrings() map[PartyType]string {
	return map[PartyType]string{
		PartyTypeUnknown:   "UNKNOWN",
		PartyTypeForwarder: "FORWARDER",
		PartyTypeConsignee: "CONSIGNEE",
		PartyTypeShipper:   "SHIPPER",
	}
}

func getValidPartyTypeStrings() map[PartyType]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[PartyType]string{
		PartyTypeForwarder: "FORWARDER",
		PartyTypeConsignee: "CONSIGNEE",
		PartyTypeShipper:   "SHIPPER",
	}
}

// Validate checks if the PartyType value is valid.
func (p PartyType) Validate() error {
	if _, ok := getValidPartyTypeStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("partyType is invalid",
			fmt.Errorf("%d is not a valid party type", p))
	}
	return nil
}

// String returns the wire representation of the party type.
// Returns "UNKNOWN" for invalid values.
func (p PartyType) String() string {
	if str, ok := getPartyTypeStrings()[p]; ok {
		return str
	}
	return "UNKNOWN"
}

// PartyTypeFromString parses a wire representation back into a PartyType.
func PartyTypeFromString(value string) (PartyType, error) {
	for partyType, str := range getValidPartyTypeStrings() {
		if str == value {
			return partyType, nil
		}
	}
	return PartyTypeUnknown, errs.NewValueIsInvalidErrorWithCause("partyType is invalid",
		fmt.Errorf("%q is not a valid party type", value))
}
