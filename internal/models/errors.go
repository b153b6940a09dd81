package models

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedPacket - байты датаграммы нельзя интерпретировать как текст
	ErrMalformedPacket = errors.New("malformed packet")
	// ErrValidationFailed - пакет разобран, но нарушает правила формата
	ErrValidationFailed = errors.New("validation failed")
	// ErrDuplicateRecord - запись уже есть в хранилище, не является ошибкой для вызывающего кода
	ErrDuplicateRecord     = errors.New("duplicate record")
	ErrBindFailed          = errors.New("bind failed")
	ErrTransportFailed     = errors.New("transport failed")
	ErrStoreFailure        = errors.New("store failure")
	ErrRecordNotFound      = errors.New("record not found")
	ErrSerializationFailed = errors.New("serialization failed")
)

// ValidationError описывает причину отклонения пакета или входных данных
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidationFailed, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// Invalid создает ValidationError с форматированной причиной
func Invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
