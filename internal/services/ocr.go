package services

import (
	"regexp"
	"strings"

	"github.com/workzen/hr-service/internal/dto"
)

var (
	panPattern     = regexp.MustCompile(`[A-Z]{5}[0-9]{4}[A-Z]`)
	aadhaarPattern = regexp.MustCompile(`\b\d{4}\s?\d{4}\s?\d{4}\b`)
	phonePattern   = regexp.MustCompile(`\b[6-9]\d{9}\b`)
)

// ExtractDocumentFields applies type-specific pattern matching to raw
// OCR text. The result is advisory data for HR review only and is
// never written back into the onboarding record.
func ExtractDocumentFields(docType, text string) dto.OCRFields {
	fields := dto.OCRFields{RawText: text}
	if strings.TrimSpace(text) == "" {
		return fields
	}

	switch strings.ToLower(strings.TrimSpace(docType)) {
	case "pan", "pan_card":
		fields.PAN = panPattern.FindString(text)
		fields.Name = guessNameLine(text)
	case "aadhaar", "aadhaar_card":
		if m := aadhaarPattern.FindString(text); m != "" {
			fields.Aadhaar = strings.ReplaceAll(m, " ", "")
		}
		fields.Phone = phonePattern.FindString(text)
		fields.Name = guessNameLine(text)
		fields.Address = guessAddress(text)
	default:
		fields.PAN = panPattern.FindString(text)
		if m := aadhaarPattern.FindString(text); m != "" {
			fields.Aadhaar = strings.ReplaceAll(m, " ", "")
		}
		fields.Phone = phonePattern.FindString(text)
	}
	return fields
}

// guessNameLine picks the first line that looks like a person's name:
// alphabetic, two or more words, no digits.
func guessNameLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.ContainsAny(line, "0123456789") {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 5 {
			continue
		}
		ok := true
		for _, w := range words {
			for _, r := range w {
				if !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r == '.') {
					ok = false
					break
				}
			}
		}
		if ok {
			return line
		}
	}
	return ""
}

// guessAddress joins the lines following an "Address" marker, if any.
func guessAddress(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), "address") {
			continue
		}
		var out []string
		for _, l := range lines[i+1:] {
			l = strings.TrimSpace(l)
			if l == "" {
				break
			}
			out = append(out, l)
			if len(out) == 3 {
				break
			}
		}
		return strings.Join(out, ", ")
	}
	return ""
}
