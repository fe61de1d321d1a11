package service

import (
	"errors"

	"github.com/weiawesome/prefixid/id-service/internal/domain"
	"github.com/weiawesome/prefixid/pkg/codec"
	"github.com/weiawesome/prefixid/pkg/prefix"
	"github.com/weiawesome/prefixid/pkg/typeid"
)

var (
	ErrInvalidCount = errors.New("count out of range")
	ErrUnknownKind  = errors.New("kind is not served")
)

// Code maps an identifier error to its stable code, or "" if err is not a
// rejection of the identifier itself.
func Code(err error) string {
	switch {
	case errors.Is(err, typeid.ErrSeparatorMissing):
		return domain.CodeSeparatorMissing
	case errors.Is(err, typeid.ErrUnknownPrefix):
		return domain.CodeUnknownPrefix
	case errors.Is(err, typeid.ErrPrefixMismatch):
		return domain.CodePrefixMismatch
	case errors.Is(err, prefix.ErrInvalid):
		return domain.CodePrefixInvalid
	case errors.Is(err, codec.ErrInvalidCharacter):
		return domain.CodePayloadInvalidCharacter
	case errors.Is(err, codec.ErrWrongLength):
		return domain.CodePayloadWrongLength
	case errors.Is(err, codec.ErrOverflow):
		return domain.CodePayloadOverflow
	}
	return ""
}

// Reason returns the message of err without the quoted input.
func Reason(err error) string {
	var pe *typeid.ParseError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	return err.Error()
}
