package nbt

import "errors"

var (
	// ErrUnsupported у типа нет значения по умолчанию (End или нулевая структура без конструктора).
	// Это ошибка программиста, поэтому она приходит через panic.
	ErrUnsupported = errors.New("nbt: unsupported operation")

	ErrUnknownKind      = errors.New("nbt: unknown tag kind")
	ErrNegativeLength   = errors.New("nbt: negative length")
	ErrTooLarge         = errors.New("nbt: length exceeds limit")
	ErrTooDeep          = errors.New("nbt: nesting exceeds limit")
	ErrListKindMismatch = errors.New("nbt: list element kind mismatch")
	ErrNilTag           = errors.New("nbt: nil tag")
)
