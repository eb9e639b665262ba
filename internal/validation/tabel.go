// Package validation содержит функции валидации входных данных.
package validation

import "unicode"

// MinTabelNumberLength — минимально допустимая длина табельного номера.
const MinTabelNumberLength = 2

// IsValidTabelNumber проверяет корректность табельного номера:
// непустая строка из цифр длиной не меньше MinTabelNumberLength.
func IsValidTabelNumber(tabel string) bool {
	if len(tabel) < MinTabelNumberLength {
		return false
	}

	for _, ch := range tabel {
		if !unicode.IsDigit(ch) {
			return false
		}
	}

	return true
}
