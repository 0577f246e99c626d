package utils

import (
	"regexp"
	"strings"
	"time"

	"github.com/usifszone1/bills/dto"
)

const (
	// DefaultMemberOf is used when the document names no organization.
	DefaultMemberOf = "Agricultural Bank of Egypt"
	// CustomerDateLayout formats the fallback customer date.
	CustomerDateLayout = "2006-01-02"
)

const (
	labelSeparator = `[ \t]*[.:\-]*[ \t]*`
	dateValue      = `(\d{1,4}[-/.]\d{1,2}[-/.]\d{1,4}|\d{1,2}[ \t]+\p{L}+[ \t]+\d{4})`
	numberValue    = `(\+?\d[\d-]*)`
	nameValue      = `(\p{L}[^\n]*)`
	lineValue      = `([^\n]+)`
)

// Field labels, English and Arabic.
const (
	nameLabels            = `Beneficiary Name|Patient Name|Customer Name|Member Name|اسم المريض|اسم المستفيد|اسم العميل`
	idLabels              = `Beneficiary ID|Member ID|National ID|ID Number|الرقم القومي|رقم الهوية|رقم المستفيد`
	memberOfLabels        = `Member Of|عضو في|موظفى|موظفين|اعضاء|موظفي|عملاء|التأمين على`
	mobileLabels          = `Mobile No|Mobile|رقم الجوال|رقم الموبايل|رقم الهاتف`
	claimCodeLabels       = `Claim Code|كود المطالبة|رقم المطالبة`
	firstDispensingLabels = `First Dispensing Date|تاريخ أول صرف|تاريخ اول صرف`
	examinationLabels     = `Examination Date|تاريخ الكشف`
	approvalDoctorLabels  = `Approval Doctor|Approving Doctor|الطبيب المعتمد|اسم الطبيب`
	claimTypeLabels       = `Claim Type|نوع المطالبة`
	instructionsLabels    = `Special Instructions|تعليمات خاصة`
	providerNotesLabels   = `Provider Notes|ملاحظات مقدم الخدمة`

	// otherLabels are short labels that only ever introduce a value.
	otherLabels = `ID|Name|Date|Mobile|Phone|Tel|Age|Gender|Code|Type|Doctor|Company|Insurance|الاسم|التاريخ|تاريخ|الهاتف|الجوال|العمر|النوع|الكود|رقم|كود|الطبيب|الشركة`
)

// fieldPattern is one labelled regex. When exclude matches the text between
// the start of the line and the label, the hit belongs to another field.
type fieldPattern struct {
	re      *regexp.Regexp
	exclude *regexp.Regexp
}

type customerField struct {
	name     string
	patterns []fieldPattern
	clean    func(string) string
	set      func(*dto.Customer, string)
}

func labelled(labels, value string) fieldPattern {
	return fieldPattern{re: regexp.MustCompile(`(?i)(?:` + labels + `)` + labelSeparator + value)}
}

func (f fieldPattern) excluding(prefix string) fieldPattern {
	f.exclude = regexp.MustCompile(`(?i)(?:` + prefix + `)[ \t]*$`)
	return f
}

var (
	valueTerminator = regexp.MustCompile(`[ \t]{2,}|\|`)
	trailingLabel   = regexp.MustCompile(`(?i)[ \t]+(?:` + strings.Join([]string{
		nameLabels, idLabels, memberOfLabels, mobileLabels, claimCodeLabels,
		firstDispensingLabels, examinationLabels, approvalDoctorLabels,
		claimTypeLabels, instructionsLabels, providerNotesLabels,
		`Dispensed Date|Invoice Date|Claim Date|تاريخ الصرف`, otherLabels,
	}, "|") + `)[ \t]*\.?[ \t]*:`)
)

// customerFields is tried top to bottom; within a field the first pattern that
// yields a non-empty value wins.
var customerFields = []customerField{
	{
		name: "name",
		patterns: []fieldPattern{
			labelled(nameLabels, nameValue),
			labelled(`الاسم`, nameValue),
			fieldPattern{re: regexp.MustCompile(`(?i)\bName[ \t]*:[ \t]*` + nameValue)}.
				excluding(`drug|doctor|company|pharmacy|provider|item|medication`),
		},
		clean: cleanName,
		set:   func(c *dto.Customer, v string) { c.Name = v },
	},
	{
		name: "id",
		patterns: []fieldPattern{
			labelled(idLabels, numberValue),
			fieldPattern{re: regexp.MustCompile(`(?i)\bID\b` + labelSeparator + numberValue)}.
				excluding(`claim|request|icd|approval`),
		},
		clean: cleanValue,
		set:   func(c *dto.Customer, v string) { c.ID = v },
	},
	{
		name: "date",
		patterns: []fieldPattern{
			labelled(`Dispensed Date`, dateValue),
			labelled(`تاريخ الصرف`, dateValue),
			labelled(`Invoice Date|Claim Date|\bDate`, dateValue).
				excluding(`dispens(?:ed|ing)|examination|birth|expiry|first`),
			labelled(`التاريخ|تاريخ`, dateValue),
		},
		clean: cleanValue,
		set:   func(c *dto.Customer, v string) { c.Date = v },
	},
	{
		name: "memberOf",
		patterns: []fieldPattern{
			labelled(memberOfLabels, lineValue),
			{re: regexp.MustCompile(`((?:جمعية|شركة|بنك|مؤسسة|هيئة)[ \t]+[\p{L} \t]+)`)},
		},
		clean: cleanName,
		set:   func(c *dto.Customer, v string) { c.MemberOf = v },
	},
	{
		name: "mobileNo",
		patterns: []fieldPattern{
			labelled(mobileLabels, numberValue),
		},
		clean: cleanValue,
		set:   func(c *dto.Customer, v string) { c.MobileNo = v },
	},
	{
		name: "claimCode",
		patterns: []fieldPattern{
			labelled(claimCodeLabels, numberValue),
		},
		clean: cleanValue,
		set:   func(c *dto.Customer, v string) { c.ClaimCode = v },
	},
	{
		name: "firstDispensingDate",
		patterns: []fieldPattern{
			labelled(firstDispensingLabels, dateValue),
		},
		clean: cleanValue,
		set:   func(c *dto.Customer, v string) { c.FirstDispensingDate = v },
	},
	{
		name: "examinationDate",
		patterns: []fieldPattern{
			labelled(examinationLabels, dateValue),
		},
		clean: cleanValue,
		set:   func(c *dto.Customer, v string) { c.ExaminationDate = v },
	},
	{
		name: "approvalDoctor",
		patterns: []fieldPattern{
			labelled(approvalDoctorLabels, nameValue),
		},
		clean: cleanName,
		set:   func(c *dto.Customer, v string) { c.ApprovalDoctor = v },
	},
	{
		name: "claimType",
		patterns: []fieldPattern{
			labelled(claimTypeLabels, lineValue),
		},
		clean: cleanValue,
		set:   func(c *dto.Customer, v string) { c.ClaimType = v },
	},
	{
		name: "specialInstructions",
		patterns: []fieldPattern{
			labelled(instructionsLabels, lineValue),
		},
		clean: cleanValue,
		set:   func(c *dto.Customer, v string) { c.SpecialInstructions = v },
	},
	{
		name: "providerNotes",
		patterns: []fieldPattern{
			labelled(providerNotesLabels, lineValue),
		},
		clean: cleanValue,
		set:   func(c *dto.Customer, v string) { c.ProviderNotes = v },
	},
}

// CustomerParser extracts beneficiary and claim metadata from claim text.
// It holds no per-call state and is safe for concurrent use once configured.
type CustomerParser struct {
	now             func() time.Time
	defaultMemberOf string
}

// NewCustomerParser creates a parser that dates customers with time.Now.
func NewCustomerParser() *CustomerParser {
	return &CustomerParser{
		now:             time.Now,
		defaultMemberOf: DefaultMemberOf,
	}
}

// WithClock sets the clock used for the fallback customer date.
func (p *CustomerParser) WithClock(now func() time.Time) *CustomerParser {
	if now != nil {
		p.now = now
	}
	return p
}

// WithDefaultMemberOf sets the organization used when none is found.
func (p *CustomerParser) WithDefaultMemberOf(org string) *CustomerParser {
	p.defaultMemberOf = org
	return p
}

// Defaults returns the customer reported when nothing in the text matched.
func (p *CustomerParser) Defaults() dto.Customer {
	return dto.Customer{
		Name:     dto.UnknownCustomerName,
		ID:       dto.UnknownCustomerID,
		Date:     p.now().Format(CustomerDateLayout),
		MemberOf: p.defaultMemberOf,
	}
}

// Parse fills a Customer from labelled fields in text. Missing fields keep
// their defaults; Parse never fails.
func (p *CustomerParser) Parse(text string) dto.Customer {
	customer := p.Defaults()
	for _, field := range customerFields {
		if value, ok := field.find(text); ok {
			field.set(&customer, value)
		}
	}
	return customer
}

// ParseCustomer parses text with a default CustomerParser.
func ParseCustomer(text string) dto.Customer {
	return NewCustomerParser().Parse(text)
}

func (f customerField) find(text string) (string, bool) {
	for _, p := range f.patterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			if p.exclude != nil {
				lineStart := strings.LastIndexByte(text[:m[0]], '\n') + 1
				if p.exclude.MatchString(text[lineStart:m[0]]) {
					continue
				}
			}
			if value := f.clean(text[m[2]:m[3]]); value != "" {
				return value, true
			}
		}
	}
	return "", false
}

func cleanValue(v string) string {
	if loc := valueTerminator.FindStringIndex(v); loc != nil {
		v = v[:loc[0]]
	}
	return strings.TrimSpace(v)
}

// cleanName also drops a following known "Label:" that shares the line.
func cleanName(v string) string {
	v = cleanValue(v)
	if loc := trailingLabel.FindStringIndex(v); loc != nil {
		v = v[:loc[0]]
	}
	return strings.Trim(v, " \t.,-:")
}
