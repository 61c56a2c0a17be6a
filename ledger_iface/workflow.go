package ledger_iface

type PaymentConfirmRequest struct {
	Id          string `json:"id"`
	AccountType string `json:"accountType"`
}

type InvoiceConfirmRequest struct {
	Id        string  `json:"id"`
	InvoiceId *string `json:"invoiceId"`
}

type InvoiceSkipRequest struct {
	Id string `json:"id"`
}

type TaxConfirmRequest struct {
	Id        string `json:"id"`
	TaxPeriod string `json:"taxPeriod"`
}

type WorkflowResponse struct {
	Data *Entry `json:"data"`
}

type PendingListRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}
