package http

import (
	"time"
)

// Error is the JSON error body returned by all endpoints.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	// PackageIds enumerates the offending packages on batch rejections.
	PackageIds []string `json:"packageIds,omitempty"`
}

// NewTransaction is the request body for creating a package transaction.
type NewTransaction struct {
	PackingListId string `json:"packingListId"`
	Flow          string `json:"flow"`
	PartyName     string `json:"partyName"`
	PartyType     string `json:"partyType"`
}

// ExecuteStep is the request body for executing one flow step on a batch of packages.
type ExecuteStep struct {
	PackageIds     []string `json:"packageIds"`
	LocationId     *string  `json:"locationId,omitempty"`
	TruckNo        *string  `json:"truckNo,omitempty"`
	AttachmentRefs []string `json:"attachmentRefs,omitempty"`
	BestEffort     bool     `json:"bestEffort,omitempty"`
}

// Transaction is the JSON representation of a package transaction.
type Transaction struct {
	Id            string     `json:"id"`
	Code          string     `json:"code"`
	PackingListId string     `json:"packingListId"`
	Flow          string     `json:"flow"`
	PartyName     string     `json:"partyName"`
	PartyType     string     `json:"partyType"`
	Status        string     `json:"status"`
	PickedCount   int        `json:"pickedCount"`
	CreatedAt     time.Time  `json:"createdAt"`
	EndedAt       *time.Time `json:"endedAt,omitempty"`
}

// TransactionPage is one page of the transaction listing.
type TransactionPage struct {
	Items []Transaction `json:"items"`
	Total int64         `json:"total"`
}

// StepResult reports the outcome of a step execution.
type StepResult struct {
	StepCode string        `json:"stepCode"`
	Applied  []string      `json:"applied"`
	Failed   []StepFailure `json:"failed,omitempty"`
}

// StepFailure names one package that could not take the step and why.
type StepFailure struct {
	PackageId string `json:"packageId"`
	Reason    string `json:"reason"`
}

// Package is the JSON representation of a cargo package.
type Package struct {
	Id                string  `json:"id"`
	PackageNo         *string `json:"packageNo,omitempty"`
	PositionStatus    string  `json:"positionStatus"`
	ConditionStatus   string  `json:"conditionStatus"`
	RegulatoryStatus  string  `json:"regulatoryStatus"`
	StorageLocationId *string `json:"storageLocationId,omitempty"`
	// ActiveStepCode is the step the package is eligible for, present when the
	// listing was requested for a specific flow.
	ActiveStepCode *string `json:"activeStepCode,omitempty"`
}
