package domain

import (
	"time"

	"github.com/weiawesome/prefixid/pkg/payload"
)

// KindResponse describes a kind served by the service.
type KindResponse struct {
	Prefix        string `json:"prefix"`
	Width         int    `json:"width"`
	EncodedLength int    `json:"encoded_length"`
	Source        string `json:"source"`
}

// GenerateRequest represents a generate request.
type GenerateRequest struct {
	Count int `form:"count"`
}

// GenerateResponse lists the identifiers issued by one request.
type GenerateResponse struct {
	BatchID string   `json:"batch_id"`
	Prefix  string   `json:"prefix"`
	Source  string   `json:"source"`
	IDs     []string `json:"ids"`
}

// InspectResponse describes a parsed identifier.
type InspectResponse struct {
	ID      string           `json:"id"`
	Prefix  string           `json:"prefix"`
	Width   int              `json:"width"`
	Payload string           `json:"payload"` // hex
	Source  string           `json:"source,omitempty"`
	Details *payload.Details `json:"details,omitempty"`

	// Issued is nil when the ledger is disabled.
	Issued   *bool      `json:"issued,omitempty"`
	IssuedAt *time.Time `json:"issued_at,omitempty"`
	BatchID  string     `json:"batch_id,omitempty"`
}

// ValidateRequest asks whether ID is well formed, optionally for a given kind.
type ValidateRequest struct {
	ID     string `json:"id" binding:"required"`
	Prefix string `json:"prefix"`
}

// ValidateResponse reports the outcome of a validation. Code is one of the
// Code* constants when Valid is false.
type ValidateResponse struct {
	Valid  bool   `json:"valid"`
	Code   string `json:"code,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Stable error codes for rejected identifiers.
const (
	CodeSeparatorMissing        = "SEPARATOR_MISSING"
	CodePrefixInvalid           = "PREFIX_INVALID"
	CodePrefixMismatch          = "PREFIX_MISMATCH"
	CodeUnknownPrefix           = "UNKNOWN_PREFIX"
	CodePayloadInvalidCharacter = "PAYLOAD_INVALID_CHARACTER"
	CodePayloadWrongLength      = "PAYLOAD_WRONG_LENGTH"
	CodePayloadOverflow         = "PAYLOAD_OVERFLOW"
)
