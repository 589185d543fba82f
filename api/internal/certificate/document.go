package certificate

// Position locates a value on the page. Only Page is filled in; the box is
// always zero.
type Position struct {
	Page   int `json:"Page"`
	X      int `json:"X"`
	Y      int `json:"Y"`
	Width  int `json:"Width"`
	Height int `json:"Height"`
}

// Field is one extracted value. Value is whatever the model returned:
// a string, a json.Number or occasionally a bool.
type Field struct {
	Value    any      `json:"Value"`
	Position Position `json:"Position"`
}

// Document is the per-page response. All four lists are always present; at
// most one of them has entries.
type Document struct {
	Angle           int                `json:"Angle"`
	Page            int                `json:"Page"`
	CertificateType string             `json:"CertificateType"`
	Lifes           []LifeEntry        `json:"Lifes"`
	Earthquakes     []EarthquakeEntry  `json:"Earthquakes"`
	Socials         []SocialEntry      `json:"Socials"`
	SmallMutuals    []SmallMutualEntry `json:"SmallMutuals"`
}

type LifeEntry struct {
	InsuranceClass       *string `json:"InsuranceClass"`
	InsuranceCompanyName *Field  `json:"InsuranceCompanyName"`
	ContractNumber       *Field  `json:"ContractNumber"`
	InsuranceType        *Field  `json:"InsuranceType"`
	ContractDate         *Field  `json:"ContractDate"`
	InsurancePeriod      *Field  `json:"InsurancePeriod"`
	InsuranceContractor  *Field  `json:"InsuranceContractor"`
	InsuranceRecipient   *Field  `json:"InsuranceRecipient"`
	IsNewType            *Field  `json:"IsNewType"`
	GeneralAmount        *Field  `json:"GeneralAmount"`
	PensionPaymentDate   *Field  `json:"PensionPaymentDate"`
}

type EarthquakeEntry struct {
	InsuranceCompanyName    *Field `json:"InsuranceCompanyName"`
	ContractNumber          *Field `json:"ContractNumber"`
	InsuranceType           *Field `json:"InsuranceType"`
	ContractStartDate       *Field `json:"ContractStartDate"`
	ContractEndDate         *Field `json:"ContractEndDate"`
	InsurancePeriod         *Field `json:"InsurancePeriod"`
	InsuranceContractor     *Field `json:"InsuranceContractor"`
	InsuranceProperty       *Field `json:"InsuranceProperty"`
	DeductionAmount         *Field `json:"DeductionAmount"`
	OldDeductionAmount      *Field `json:"OldDeductionAmount"`
	MaturityRefundAvailable *Field `json:"MaturityRefundAvailable"`
}

type SocialEntry struct {
	InsuranceType *Field `json:"InsuranceType"`
	PaymentName   *Field `json:"PaymentName"`
	PayerName     *Field `json:"PayerName"`
	Payment       *Field `json:"Payment"`
}

type SmallMutualEntry struct {
	PremiumType   *string `json:"PremiumType"`
	PremiumAmount *Field  `json:"PremiumAmount"`
}

func newDocument(page int, certType string) Document {
	return Document{
		Page:            page,
		CertificateType: certType,
		Lifes:           []LifeEntry{},
		Earthquakes:     []EarthquakeEntry{},
		Socials:         []SocialEntry{},
		SmallMutuals:    []SmallMutualEntry{},
	}
}

// Default is the document returned when the certificate type was not
// recognized. It carries page 0 and echoes the discriminator.
func Default(certType string) Document {
	return newDocument(0, certType)
}
