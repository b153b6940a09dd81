package signer

import "strings"

// PlaceholderSignature - фиксированная подпись, пока нет настоящей криптографии
var PlaceholderSignature = strings.Repeat("0", 256)

// Placeholder подписывает любое содержимое одной и той же подписью и принимает любую подпись.
// Реальная реализация подключается через тот же контракт Sign/Verify.
type Placeholder struct{}

func NewPlaceholder() *Placeholder {
	return &Placeholder{}
}

func (Placeholder) Sign(_ []byte) (string, error) {
	return PlaceholderSignature, nil
}

func (Placeholder) Verify(_ []byte, _ string) bool {
	return true
}
