package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDocumentFieldsPAN(t *testing.T) {
	text := "INCOME TAX DEPARTMENT GOVT OF INDIA\nAsha Verma\nABCDE1234F\n12/04/1998"

	fields := ExtractDocumentFields("pan_card", text)
	assert.Equal(t, "ABCDE1234F", fields.PAN)
	assert.Equal(t, "Asha Verma", fields.Name)
	assert.Equal(t, text, fields.RawText)
}

func TestExtractDocumentFieldsAadhaar(t *testing.T) {
	text := "Government of India - 2026\nAsha Verma\n1234 5678 9012\nMobile: 9876543210\nAddress:\n14 MG Road\nPune 411001"

	fields := ExtractDocumentFields("aadhaar_card", text)
	assert.Equal(t, "123456789012", fields.Aadhaar)
	assert.Equal(t, "9876543210", fields.Phone)
	assert.Equal(t, "Asha Verma", fields.Name)
	assert.Contains(t, fields.Address, "14 MG Road")
}

func TestExtractDocumentFieldsUnknownType(t *testing.T) {
	text := "ABCDE1234F and 1234 5678 9012 together"

	fields := ExtractDocumentFields("offer_letter", text)
	assert.Equal(t, "ABCDE1234F", fields.PAN)
	assert.Equal(t, "123456789012", fields.Aadhaar)
}

func TestExtractDocumentFieldsEmptyText(t *testing.T) {
	fields := ExtractDocumentFields("pan_card", "   ")
	assert.Empty(t, fields.PAN)
	assert.Empty(t, fields.Name)
}
