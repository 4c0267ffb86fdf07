package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Govind-619/ZapShift/models"
)

// FieldValidationError represents a validation error for a specific field
type FieldValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldValidationErrors represents multiple field validation errors
type FieldValidationErrors []FieldValidationError

// Error implements the error interface
func (e FieldValidationErrors) Error() string {
	var messages []string
	for _, err := range e {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

var (
	phoneRegex   = regexp.MustCompile(`^\+?[0-9]{6,15}$`)
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	jsEventRegex = regexp.MustCompile(`(?i)\bon\w+\s*=`)
)

// FormatPhoneNumber strips spaces, dashes, dots and brackets and checks
// what remains is an international-style number.
func FormatPhoneNumber(phone string) (string, error) {
	phone = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')':
			return -1
		}
		return r
	}, phone)

	if !phoneRegex.MatchString(phone) {
		return "", fmt.Errorf("phone number must be 6 to 15 digits, optionally starting with +")
	}
	return phone, nil
}

// ValidateMarkup reports text that carries HTML tags or inline handlers
func ValidateMarkup(input string) (bool, string) {
	if htmlTagRegex.MatchString(input) || jsEventRegex.MatchString(input) {
		return false, "must not contain HTML or script"
	}
	return true, ""
}

// NormalizeEmail is the stored form of an email address. Lookups by email
// must pass their input through it too.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeParcelDetails trims every text field, lowercases the emails and
// formats the phone numbers in place. Binding tags have already checked
// presence and email syntax; this covers what they cannot.
func NormalizeParcelDetails(d *models.ParcelDetails) FieldValidationErrors {
	var errs FieldValidationErrors

	text := []struct {
		field string
		value *string
	}{
		{"parcelType", &d.ParcelType},
		{"parcelName", &d.ParcelName},
		{"senderName", &d.SenderName},
		{"senderRegion", &d.SenderRegion},
		{"senderDistrict", &d.SenderDistrict},
		{"senderAddress", &d.SenderAddress},
		{"receiverName", &d.ReceiverName},
		{"receiverRegion", &d.ReceiverRegion},
		{"receiverDistrict", &d.ReceiverDistrict},
		{"receiverAddress", &d.ReceiverAddress},
		{"pickupInstruction", &d.PickupInstruction},
		{"deliveryInstruction", &d.DeliveryInstruction},
	}
	for _, f := range text {
		*f.value = strings.TrimSpace(*f.value)
		if ok, msg := ValidateMarkup(*f.value); !ok {
			errs = append(errs, FieldValidationError{Field: f.field, Message: msg})
		}
	}
	if d.ParcelName == "" {
		errs = append(errs, FieldValidationError{Field: "parcelName", Message: "must not be blank"})
	}

	d.SenderEmail = NormalizeEmail(d.SenderEmail)
	d.ReceiverEmail = NormalizeEmail(d.ReceiverEmail)

	phones := []struct {
		field string
		value *string
	}{
		{"senderPhone", &d.SenderPhone},
		{"receiverPhone", &d.ReceiverPhone},
	}
	for _, f := range phones {
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			continue // optional
		}
		formatted, err := FormatPhoneNumber(*f.value)
		if err != nil {
			errs = append(errs, FieldValidationError{Field: f.field, Message: err.Error()})
			continue
		}
		*f.value = formatted
	}

	return errs
}
