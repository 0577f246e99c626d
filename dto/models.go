package dto

// Canonical dispensing units produced by the unit standardizer.
const (
	UnitTab     = "TAB"
	UnitBox     = "BOX"
	UnitStrip   = "STRIP"
	UnitVial    = "VIAL"
	UnitAmp     = "AMP"
	UnitSyringe = "SYRINGE"
	UnitBottle  = "BOTTLE"
	UnitCap     = "CAP"
	UnitCream   = "CREAM"
	UnitGeneric = "UNIT"
)

// Customer placeholders used when no label in the document matched.
const (
	UnknownCustomerName = "Unknown Customer"
	UnknownCustomerID   = "Unknown ID"
)

// Customer holds the beneficiary and claim metadata printed on a pharmacy claim.
// Name and ID are always set; the remaining fields are empty when the document
// did not carry them.
type Customer struct {
	Name                string `json:"name"`
	ID                  string `json:"id"`
	Date                string `json:"date,omitempty"`
	MemberOf            string `json:"member_of,omitempty"`
	MobileNo            string `json:"mobile_no,omitempty"`
	ClaimCode           string `json:"claim_code,omitempty"`
	FirstDispensingDate string `json:"first_dispensing_date,omitempty"`
	ExaminationDate     string `json:"examination_date,omitempty"`
	ApprovalDoctor      string `json:"approval_doctor,omitempty"`
	ClaimType           string `json:"claim_type,omitempty"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
	ProviderNotes       string `json:"provider_notes,omitempty"`
}

// Medication is one dispensed line item. Total is always Quantity * Price;
// Net is only set when the document stated its own net figure for the line.
type Medication struct {
	Name     string   `json:"name"`
	Quantity float64  `json:"quantity"`
	Unit     string   `json:"unit"`
	Price    float64  `json:"price"`
	Total    float64  `json:"total"`
	Net      *float64 `json:"net,omitempty"`
}

// ReceiptSummary is derived from the medications and the coverage percentage.
type ReceiptSummary struct {
	Subtotal           float64 `json:"subtotal"`
	CoveragePercentage int     `json:"coverage_percentage"`
	CoverageAmount     float64 `json:"coverage_amount"`
	FinalTotal         float64 `json:"final_total"`
}

// AmountOverrides carries gross/discount/net figures read directly from the
// document. A zero value means "not found", never "stated as zero".
type AmountOverrides struct {
	Gross    float64 `json:"gross,omitempty"`
	Discount float64 `json:"discount,omitempty"`
	Net      float64 `json:"net,omitempty"`
}

// PharmacyInfo is the static pharmacy record merged into every receipt.
type PharmacyInfo struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Landline string `json:"landline"`
	Website  string `json:"website"`
	Logo     string `json:"logo"`
}

// ReceiptData is the aggregate produced by one extraction call.
type ReceiptData struct {
	Customer       Customer       `json:"customer"`
	Medications    []Medication   `json:"medications"`
	Summary        ReceiptSummary `json:"summary"`
	Pharmacy       PharmacyInfo   `json:"pharmacy"`
	InvoiceID      string         `json:"invoice_id,omitempty"`
	SequenceNumber int            `json:"sequence_number,omitempty"`
	Strategy       string         `json:"strategy,omitempty"`
}

// TextDocument is one entry of a batch extraction request.
type TextDocument struct {
	ID             string `json:"id"`
	Text           string `json:"text"`
	InvoiceID      string `json:"invoice_id,omitempty"`
	SequenceNumber int    `json:"sequence_number,omitempty"`
}

// BatchItem is the per-document outcome of a batch extraction.
type BatchItem struct {
	ID      string       `json:"id"`
	Receipt *ReceiptData `json:"receipt,omitempty"`
	Error   string       `json:"error,omitempty"`
}
