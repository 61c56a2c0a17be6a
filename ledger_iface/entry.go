package ledger_iface

import (
	"time"

	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/shopspring/decimal"
)

type Attachment struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	Url  string `json:"url"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

type Entry struct {
	Id                   string          `json:"id"`
	Type                 string          `json:"type"`
	Amount               decimal.Decimal `json:"amount"`
	Date                 string          `json:"date"`
	CategoryId           string          `json:"categoryId"`
	CategoryName         string          `json:"categoryName"`
	AccountId            string          `json:"accountId"`
	AccountName          string          `json:"accountName"`
	ToAccountId          *string         `json:"toAccountId"`
	ToAccountName        string          `json:"toAccountName"`
	Description          string          `json:"description"`
	Tags                 []string        `json:"tags"`
	Attachments          []*Attachment   `json:"attachments"`
	InvoiceId            *string         `json:"invoiceId"`
	BookId               string          `json:"bookId"`
	PaymentConfirmed     bool            `json:"paymentConfirmed"`
	PaymentAccountType   *string         `json:"paymentAccountType"`
	PayerName            *string         `json:"payerName"`
	PaymentConfirmedAt   *string         `json:"paymentConfirmedAt"`
	InvoiceNeeded        bool            `json:"invoiceNeeded"`
	InvoiceCompleted     bool            `json:"invoiceCompleted"`
	InvoiceConfirmedAt   *string         `json:"invoiceConfirmedAt"`
	InvoiceIssued        bool            `json:"invoiceIssued"`
	InvoiceImages        []*Attachment   `json:"invoiceImages"`
	CompanyAccountDate   *string         `json:"companyAccountDate"`
	CompanyAccountImages []*Attachment   `json:"companyAccountImages"`
	TaxDeclared          bool            `json:"taxDeclared"`
	TaxDeclaredAt        *string         `json:"taxDeclaredAt"`
	TaxPeriod            *string         `json:"taxPeriod"`
	ReimbursementBatchId *string         `json:"reimbursementBatchId"`
	ReimbursementStatus  *string         `json:"reimbursementStatus"`
	CreatedAt            string          `json:"createdAt"`
	UpdatedAt            string          `json:"updatedAt"`
}

// EntryNames carries resolved display names for an entry.
type EntryNames struct {
	CategoryName  string
	AccountName   string
	ToAccountName string
}

func NewAttachment(att *ledger_core.Attachment) *Attachment {
	return &Attachment{
		Id:   att.ID,
		Name: att.Name,
		Url:  att.Url,
		Type: att.Type,
		Size: att.Size,
	}
}

func NewEntry(entry *ledger_core.Entry, names *EntryNames, attachments []*ledger_core.Attachment) *Entry {
	item := &Entry{
		Id:                   entry.ID,
		Type:                 string(entry.Type),
		Amount:               entry.Amount.Decimal,
		Date:                 FormatDate(entry.EntryDate),
		CategoryId:           entry.CategoryID,
		AccountId:            entry.AccountID,
		ToAccountId:          entry.ToAccountID,
		Description:          entry.Description,
		Tags:                 []string(entry.Tags),
		Attachments:          []*Attachment{},
		InvoiceId:            entry.InvoiceID,
		BookId:               entry.BookID,
		PaymentConfirmed:     entry.PaymentConfirmed,
		PayerName:            entry.PayerName,
		PaymentConfirmedAt:   formatTimestamp(entry.PaymentConfirmedAt),
		InvoiceNeeded:        entry.InvoiceNeeded,
		InvoiceCompleted:     entry.InvoiceCompleted,
		InvoiceConfirmedAt:   formatTimestamp(entry.InvoiceConfirmedAt),
		InvoiceIssued:        entry.InvoiceIssued,
		InvoiceImages:        fromCoreImages(entry.InvoiceImages),
		CompanyAccountDate:   formatDatePtr(entry.CompanyAccountDate),
		CompanyAccountImages: fromCoreImages(entry.CompanyAccountImages),
		TaxDeclared:          entry.TaxDeclared,
		TaxDeclaredAt:        formatTimestamp(entry.TaxDeclaredAt),
		TaxPeriod:            entry.TaxPeriod,
		ReimbursementBatchId: entry.ReimbursementBatchID,
		CreatedAt:            entry.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:            entry.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if item.Tags == nil {
		item.Tags = []string{}
	}
	if entry.PaymentAccountType != nil {
		accType := string(*entry.PaymentAccountType)
		item.PaymentAccountType = &accType
	}
	if entry.ReimbursementStatus != nil {
		status := string(*entry.ReimbursementStatus)
		item.ReimbursementStatus = &status
	}
	if names != nil {
		item.CategoryName = names.CategoryName
		item.AccountName = names.AccountName
		item.ToAccountName = names.ToAccountName
	}
	for _, att := range attachments {
		item.Attachments = append(item.Attachments, NewAttachment(att))
	}

	return item
}

func fromCoreImages(images []ledger_core.Attachment) []*Attachment {
	result := make([]*Attachment, 0, len(images))
	for i := range images {
		result = append(result, NewAttachment(&images[i]))
	}
	return result
}

func toCoreImages(images []*Attachment) []ledger_core.Attachment {
	result := make([]ledger_core.Attachment, 0, len(images))
	for _, img := range images {
		result = append(result, ledger_core.Attachment{
			ID:   img.Id,
			Name: img.Name,
			Url:  img.Url,
			Type: img.Type,
			Size: img.Size,
		})
	}
	return result
}

func toCoreAttachments(attachments []*Attachment) []*ledger_core.Attachment {
	result := make([]*ledger_core.Attachment, 0, len(attachments))
	for _, att := range attachments {
		result = append(result, &ledger_core.Attachment{
			ID:   att.Id,
			Name: att.Name,
			Url:  att.Url,
			Type: att.Type,
			Size: att.Size,
		})
	}
	return result
}

type EntryCreateRequest struct {
	Type               string          `json:"type"`
	Amount             decimal.Decimal `json:"amount"`
	Date               string          `json:"date"`
	CategoryId         string          `json:"categoryId"`
	AccountId          string          `json:"accountId"`
	ToAccountId        *string         `json:"toAccountId"`
	Description        string          `json:"description"`
	Tags               []string        `json:"tags"`
	Attachments        []*Attachment   `json:"attachments"`
	InvoiceId          *string         `json:"invoiceId"`
	BookId             string          `json:"bookId"`
	PaymentConfirmed   bool            `json:"paymentConfirmed"`
	PaymentAccountType *string         `json:"paymentAccountType"`
	PayerName          *string         `json:"payerName"`
	InvoiceNeeded      *bool           `json:"invoiceNeeded"`
	InvoiceCompleted   bool            `json:"invoiceCompleted"`
	InvoiceIssued      bool            `json:"invoiceIssued"`
	TaxDeclared        bool            `json:"taxDeclared"`
	TaxPeriod          *string         `json:"taxPeriod"`

	InvoiceImages        []*Attachment `json:"invoiceImages"`
	CompanyAccountDate   *string       `json:"companyAccountDate"`
	CompanyAccountImages []*Attachment `json:"companyAccountImages"`
}

// ToEntry maps the request onto a new core entry. invoiceNeeded defaults to
// true when omitted.
func (r *EntryCreateRequest) ToEntry() (*ledger_core.Entry, []*ledger_core.Attachment, error) {
	date, err := ParseDate("date", r.Date)
	if err != nil {
		return nil, nil, err
	}
	companyDate, err := parseOptionalDate("companyAccountDate", r.CompanyAccountDate)
	if err != nil {
		return nil, nil, err
	}

	entry := &ledger_core.Entry{
		Type:             ledger_core.EntryType(r.Type),
		Amount:           ledger_core.NewMoney(r.Amount),
		EntryDate:        date,
		CategoryID:       r.CategoryId,
		AccountID:        r.AccountId,
		ToAccountID:      r.ToAccountId,
		Description:      r.Description,
		Tags:             r.Tags,
		InvoiceID:        r.InvoiceId,
		BookID:           r.BookId,
		PaymentConfirmed: r.PaymentConfirmed,
		PayerName:        r.PayerName,
		InvoiceNeeded:    true,
		InvoiceCompleted: r.InvoiceCompleted,
		InvoiceIssued:    r.InvoiceIssued,
		TaxDeclared:      r.TaxDeclared,
		TaxPeriod:        r.TaxPeriod,

		InvoiceImages:        toCoreImages(r.InvoiceImages),
		CompanyAccountDate:   companyDate,
		CompanyAccountImages: toCoreImages(r.CompanyAccountImages),
	}

	if r.InvoiceNeeded != nil {
		entry.InvoiceNeeded = *r.InvoiceNeeded
	}
	if r.PaymentAccountType != nil && *r.PaymentAccountType != "" {
		accType := ledger_core.PaymentAccountType(*r.PaymentAccountType)
		entry.PaymentAccountType = &accType
	}

	return entry, toCoreAttachments(r.Attachments), nil
}

type EntryCreateResponse struct {
	Data *Entry `json:"data"`
}

type EntryGetRequest struct {
	Id string `json:"id"`
}

type EntryGetResponse struct {
	Data *Entry `json:"data"`
}

type EntryListRequest struct {
	Type       string           `json:"type"`
	CategoryId string           `json:"categoryId"`
	AccountId  string           `json:"accountId"`
	DateStart  string           `json:"dateStart"`
	DateEnd    string           `json:"dateEnd"`
	Keyword    string           `json:"keyword"`
	AmountMin  *decimal.Decimal `json:"amountMin"`
	AmountMax  *decimal.Decimal `json:"amountMax"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
}

type EntryListResponse struct {
	Data     []*Entry              `json:"data"`
	PageInfo *ledger_core.PageInfo `json:"pageInfo"`
}

// EntryUpdateRequest holds a partial update. Reimbursement linkage is owned by
// the batch manager and cannot be patched here.
type EntryUpdateRequest struct {
	Id                 string           `json:"id"`
	Type               *string          `json:"type"`
	Amount             *decimal.Decimal `json:"amount"`
	Date               *string          `json:"date"`
	CategoryId         *string          `json:"categoryId"`
	AccountId          *string          `json:"accountId"`
	ToAccountId        *string          `json:"toAccountId"`
	Description        *string          `json:"description"`
	Tags               *[]string        `json:"tags"`
	Attachments        *[]*Attachment   `json:"attachments"`
	InvoiceId          *string          `json:"invoiceId"`
	BookId             *string          `json:"bookId"`
	PaymentConfirmed   *bool            `json:"paymentConfirmed"`
	PaymentAccountType *string          `json:"paymentAccountType"`
	PayerName          *string          `json:"payerName"`
	InvoiceNeeded      *bool            `json:"invoiceNeeded"`
	InvoiceCompleted   *bool            `json:"invoiceCompleted"`
	InvoiceIssued      *bool            `json:"invoiceIssued"`
	TaxDeclared        *bool            `json:"taxDeclared"`
	TaxPeriod          *string          `json:"taxPeriod"`

	InvoiceImages        *[]*Attachment `json:"invoiceImages"`
	CompanyAccountDate   *string        `json:"companyAccountDate"`
	CompanyAccountImages *[]*Attachment `json:"companyAccountImages"`
}

func (r *EntryUpdateRequest) ToPatch() (*ledger_core.EntryPatch, error) {
	date, err := parseOptionalDate("date", r.Date)
	if err != nil {
		return nil, err
	}

	patch := &ledger_core.EntryPatch{
		Amount:           r.Amount,
		EntryDate:        date,
		CategoryID:       r.CategoryId,
		AccountID:        r.AccountId,
		ToAccountID:      r.ToAccountId,
		Description:      r.Description,
		Tags:             r.Tags,
		InvoiceID:        r.InvoiceId,
		BookID:           r.BookId,
		PaymentConfirmed: r.PaymentConfirmed,
		PayerName:        r.PayerName,
		InvoiceNeeded:    r.InvoiceNeeded,
		InvoiceCompleted: r.InvoiceCompleted,
		InvoiceIssued:    r.InvoiceIssued,
		TaxDeclared:      r.TaxDeclared,
		TaxPeriod:        r.TaxPeriod,
	}

	if r.Type != nil {
		entryType := ledger_core.EntryType(*r.Type)
		patch.Type = &entryType
	}
	if r.PaymentAccountType != nil {
		accType := ledger_core.PaymentAccountType(*r.PaymentAccountType)
		patch.PaymentAccountType = &accType
	}
	if r.Attachments != nil {
		attachments := toCoreAttachments(*r.Attachments)
		patch.Attachments = &attachments
	}
	if r.InvoiceImages != nil {
		images := toCoreImages(*r.InvoiceImages)
		patch.InvoiceImages = &images
	}
	if r.CompanyAccountImages != nil {
		images := toCoreImages(*r.CompanyAccountImages)
		patch.CompanyAccountImages = &images
	}
	if r.CompanyAccountDate != nil {
		companyDate := time.Time{}
		if *r.CompanyAccountDate != "" {
			companyDate, err = ParseDate("companyAccountDate", *r.CompanyAccountDate)
			if err != nil {
				return nil, err
			}
		}
		patch.CompanyAccountDate = &companyDate
	}

	return patch, nil
}

type EntryUpdateResponse struct {
	Data *Entry `json:"data"`
}

type EntryDeleteRequest struct {
	Id string `json:"id"`
}

type EntryDeleteResponse struct {
	Deleted bool `json:"deleted"`
}
