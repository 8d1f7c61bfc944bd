package accounting

// Document status values used by the remote API
const (
	StatusDraft  = 0
	StatusClosed = 1
)

// TokenPair holds the credentials returned by the authentication endpoint
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AppliedTax is one tax applied to a document line
type AppliedTax struct {
	TaxID int64   `json:"tax_id"`
	Value float64 `json:"value"`
}

// PayloadLine is one billable row of a document-creation payload
type PayloadLine struct {
	ProductID       int64        `json:"product_id"`
	Name            string       `json:"name"`
	Summary         string       `json:"summary"`
	Qty             float64      `json:"qty"`
	Price           float64      `json:"price"`
	Discount        float64      `json:"discount"`
	Order           int          `json:"order"`
	ExemptionReason string       `json:"exemption_reason,omitempty"`
	Taxes           []AppliedTax `json:"taxes,omitempty"`
}

// DocumentPayload is the document-creation request body. Delivery fields
// are flattened the way the remote API expects them.
type DocumentPayload struct {
	CustomerID         int64   `json:"customer_id"`
	DocumentSetID      int64   `json:"document_set_id"`
	OurReference       string  `json:"our_reference"`
	YourReference      string  `json:"your_reference"`
	Date               string  `json:"date"`
	ExpirationDate     string  `json:"expiration_date"`
	FinancialDiscount  float64 `json:"financial_discount"`
	SpecialDiscount    float64 `json:"special_discount"`
	SalesmanID         int64   `json:"salesman_id"`
	SalesmanCommission float64 `json:"salesman_commission"`
	Notes              string  `json:"notes"`
	Status             int     `json:"status"`

	DeliveryDatetime           string `json:"delivery_datetime,omitempty"`
	DeliveryMethodID           int64  `json:"delivery_method_id,omitempty"`
	DeliveryDepartureAddress   string `json:"delivery_departure_address,omitempty"`
	DeliveryDepartureCity      string `json:"delivery_departure_city,omitempty"`
	DeliveryDepartureZipCode   string `json:"delivery_departure_zip_code,omitempty"`
	DeliveryDepartureCountry   int64  `json:"delivery_departure_country,omitempty"`
	DeliveryDestinationAddress string `json:"delivery_destination_address,omitempty"`
	DeliveryDestinationCity    string `json:"delivery_destination_city,omitempty"`
	DeliveryDestinationZipCode string `json:"delivery_destination_zip_code,omitempty"`
	DeliveryDestinationCountry int64  `json:"delivery_destination_country,omitempty"`

	Products []PayloadLine `json:"products"`
}

// EmailRecipient is attached to a close request when the document should
// be emailed to the customer
type EmailRecipient struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Message string `json:"msg"`
}

// DocumentPatch is a document update request (used to close a document)
type DocumentPatch struct {
	DocumentID int64            `json:"document_id"`
	Status     int              `json:"status"`
	SendEmail  []EmailRecipient `json:"send_email,omitempty"`
}

// DocumentType describes the tax-authority classification of a document
type DocumentType struct {
	SaftCode string `json:"saft_code"`
}

// DocumentRecord is a document as returned by the remote API
type DocumentRecord struct {
	DocumentID   int64        `json:"document_id"`
	NetValue     float64      `json:"net_value"`
	EntityName   string       `json:"entity_name"`
	Status       int          `json:"status"`
	DocumentType DocumentType `json:"document_type"`
}

// Tax is a tax registered on the remote company
type Tax struct {
	TaxID int64   `json:"tax_id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Product is a product record on the remote company
type Product struct {
	ProductID int64   `json:"product_id"`
	Reference string  `json:"reference"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Summary   string  `json:"summary,omitempty"`
}

// Customer is a customer record on the remote company
type Customer struct {
	CustomerID int64  `json:"customer_id"`
	VAT        string `json:"vat,omitempty"`
	Number     string `json:"number,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	ZipCode    string `json:"zip_code,omitempty"`
	CountryID  int64  `json:"country_id,omitempty"`
}

// Company is one company available to the authenticated user
type Company struct {
	CompanyID int64  `json:"company_id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
}

// CompanyProfile is the full profile of the selected company, used as the
// departure side of delivery blocks and as the editor URL slug fallback
type CompanyProfile struct {
	CompanyID        int64  `json:"company_id"`
	Name             string `json:"name"`
	Slug             string `json:"slug"`
	Address          string `json:"address"`
	City             string `json:"city"`
	ZipCode          string `json:"zip_code"`
	CountryID        int64  `json:"country_id"`
	DeliveryMethodID int64  `json:"delivery_method_id"`
}
