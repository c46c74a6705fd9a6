package domain

import (
	"strings"
	"time"
	"unicode"
)

// Company is the employer every employee belongs to.
type Company struct {
	ID            int64     `json:"id"`
	CorporateName string    `json:"corporate_name"`
	CNPJ          string    `json:"cnpj"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NormalizeCNPJ strips punctuation so "82.198.127/0001-21" and
// "82198127000121" address the same company.
func NormalizeCNPJ(cnpj string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, cnpj)
}
