package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/usifszone1/bills/dto"
)

func fixedClock() time.Time {
	return time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
}

func TestCustomerParserEnglishClaim(t *testing.T) {
	text := `
		Pharmacy Claim Form
		Beneficiary Name: Ahmed Mohamed Ali
		Beneficiary ID: 29801011234567
		Dispensed Date: 2025-02-14
		Member Of: Misr Insurance
		Mobile No.: 01012345678
		Claim Code: 987654
		First Dispensing Date: 2025-01-10
		Examination Date: 2025-01-09
		Approval Doctor: Dr. Samir Hassan
		Claim Type: Chronic
		Special Instructions: Refill monthly
		Provider Notes: Patient requested generic
	`

	customer := NewCustomerParser().WithClock(fixedClock).Parse(text)

	assert.Equal(t, dto.Customer{
		Name:                "Ahmed Mohamed Ali",
		ID:                  "29801011234567",
		Date:                "2025-02-14",
		MemberOf:            "Misr Insurance",
		MobileNo:            "01012345678",
		ClaimCode:           "987654",
		FirstDispensingDate: "2025-01-10",
		ExaminationDate:     "2025-01-09",
		ApprovalDoctor:      "Dr. Samir Hassan",
		ClaimType:           "Chronic",
		SpecialInstructions: "Refill monthly",
		ProviderNotes:       "Patient requested generic",
	}, customer)
}

func TestCustomerParserArabicClaim(t *testing.T) {
	text := `
		اسم المريض: محمد أحمد
		الرقم القومي: 28905120101234
		تاريخ الصرف: 15/03/2025
		موظفي بنك مصر
		رقم الجوال: 01198765432
	`

	customer := NewCustomerParser().WithClock(fixedClock).Parse(text)

	assert.Equal(t, "محمد أحمد", customer.Name)
	assert.Equal(t, "28905120101234", customer.ID)
	assert.Equal(t, "15/03/2025", customer.Date)
	assert.Equal(t, "بنك مصر", customer.MemberOf)
	assert.Equal(t, "01198765432", customer.MobileNo)
}

func TestCustomerParserDefaults(t *testing.T) {
	customer := NewCustomerParser().WithClock(fixedClock).Parse("nothing useful here")

	assert.Equal(t, dto.UnknownCustomerName, customer.Name)
	assert.Equal(t, dto.UnknownCustomerID, customer.ID)
	assert.Equal(t, "2025-03-01", customer.Date)
	assert.Equal(t, DefaultMemberOf, customer.MemberOf)
	assert.Empty(t, customer.MobileNo)
	assert.Empty(t, customer.ClaimCode)
	assert.Empty(t, customer.ApprovalDoctor)
}

func TestCustomerParserDefaultMemberOf(t *testing.T) {
	parser := NewCustomerParser().WithClock(fixedClock).WithDefaultMemberOf("Nile Syndicate")

	assert.Equal(t, "Nile Syndicate", parser.Parse("").MemberOf)
	assert.Equal(t, "Nile Syndicate", parser.Defaults().MemberOf)
}

func TestCustomerParserOrganizationFallback(t *testing.T) {
	customer := NewCustomerParser().Parse("Employer\nشركة النصر للتعدين\n")

	assert.Equal(t, "شركة النصر للتعدين", customer.MemberOf)
}

func TestCustomerParserSkipsForeignLabels(t *testing.T) {
	text := `
		Drug Name: Panadol
		Claim ID: 5555
		ID: 42
		Date of Birth: 1980-01-01
		Examination Date: 2025-01-09
		Invoice Date: 2025-02-01
		Name: Sara Ali
	`

	customer := NewCustomerParser().WithClock(fixedClock).Parse(text)

	assert.Equal(t, "Sara Ali", customer.Name)
	assert.Equal(t, "42", customer.ID)
	assert.Equal(t, "2025-02-01", customer.Date)
	assert.Equal(t, "2025-01-09", customer.ExaminationDate)
}

func TestCustomerParserStopsAtNextLabel(t *testing.T) {
	text := "Beneficiary Name: Ahmed Ali Member ID: 77\nApproval Doctor: Mona Adel   Claim Type: Acute"

	customer := ParseCustomer(text)

	assert.Equal(t, "Ahmed Ali", customer.Name)
	assert.Equal(t, "77", customer.ID)
	assert.Equal(t, "Mona Adel", customer.ApprovalDoctor)
	assert.Equal(t, "Acute", customer.ClaimType)
}

func TestCustomerParserSingleWordLabelAfterName(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"english id", "Patient Name: John Smith ID: 123", "John Smith"},
		{"english mobile", "Beneficiary Name: Ahmed Ali Mobile: 0100", "Ahmed Ali"},
		{"english dotted label", "Customer Name: Sara Nabil Mobile No.: 0111", "Sara Nabil"},
		{"arabic date", "اسم المريض: محمد أحمد تاريخ: 2025-01-01", "محمد أحمد"},
		{"arabic mobile", "اسم المستفيد: فاطمة علي حسن رقم الجوال: 0122", "فاطمة علي حسن"},
		{"unknown word kept", "Patient Name: Omar Farouk Junior", "Omar Farouk Junior"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCustomer(tt.text).Name)
		})
	}
}

func TestCustomerParserSingleWordLabelValues(t *testing.T) {
	customer := ParseCustomer("Patient Name: John Smith ID: 123")

	assert.Equal(t, "John Smith", customer.Name)
	assert.Equal(t, "123", customer.ID)
}

func TestCustomerParserDeterministic(t *testing.T) {
	text := "Patient Name: Laila Hassan\nNational ID: 29001011234567\nDate: 2025-02-02"
	parser := NewCustomerParser().WithClock(fixedClock)

	assert.Equal(t, parser.Parse(text), parser.Parse(text))
}
