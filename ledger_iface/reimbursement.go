package ledger_iface

import (
	"time"

	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/shopspring/decimal"
)

type Batch struct {
	Id               string           `json:"id"`
	BatchNo          string           `json:"batchNo"`
	EmployeeName     string           `json:"employeeName"`
	TransactionIds   []string         `json:"transactionIds"`
	TotalAmount      decimal.Decimal  `json:"totalAmount"`
	Status           string           `json:"status"`
	Note             string           `json:"note"`
	ActualAmount     *decimal.Decimal `json:"actualAmount"`
	Fee              decimal.Decimal  `json:"fee"`
	FeeTransactionId *string          `json:"feeTransactionId"`
	CompletedDate    *string          `json:"completedDate"`
	CreatedAt        string           `json:"createdAt"`
	CompletedAt      *string          `json:"completedAt"`
}

func moneyDecimal(m *ledger_core.Money) *decimal.Decimal {
	if m == nil {
		return nil
	}
	d := m.Decimal
	return &d
}

func NewBatch(batch *ledger_core.ReimbursementBatch) *Batch {
	entryIDs := []string(batch.EntryIDs)
	if entryIDs == nil {
		entryIDs = []string{}
	}

	return &Batch{
		Id:               batch.ID,
		BatchNo:          batch.BatchNo,
		EmployeeName:     batch.EmployeeName,
		TransactionIds:   entryIDs,
		TotalAmount:      batch.TotalAmount.Decimal,
		Status:           string(batch.Status),
		Note:             batch.Note,
		ActualAmount:     moneyDecimal(batch.ActualAmount),
		Fee:              batch.Fee.Decimal,
		FeeTransactionId: batch.FeeEntryID,
		CompletedDate:    formatDatePtr(batch.CompletedDate),
		CreatedAt:        batch.CreatedAt.UTC().Format(time.RFC3339),
		CompletedAt:      formatTimestamp(batch.CompletedAt),
	}
}

type BatchCreateRequest struct {
	EmployeeName   string   `json:"employeeName"`
	TransactionIds []string `json:"transactionIds"`
	Note           string   `json:"note"`
}

type BatchCompleteRequest struct {
	Id            string           `json:"id"`
	CompletedDate string           `json:"completedDate"`
	ActualAmount  *decimal.Decimal `json:"actualAmount"`
	Fee           decimal.Decimal  `json:"fee"`
	FeeAccountId  *string          `json:"feeAccountId"`
}

type BatchResponse struct {
	Data *Batch `json:"data"`
}

type BatchGetRequest struct {
	Id string `json:"id"`
}

type BatchListRequest struct {
	Status   string `json:"status"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

type BatchListResponse struct {
	Data     []*Batch              `json:"data"`
	PageInfo *ledger_core.PageInfo `json:"pageInfo"`
}

type BatchDeleteRequest struct {
	Id string `json:"id"`
}

type BatchDeleteResponse struct {
	Deleted bool `json:"deleted"`
}

type BatchPendingCountRequest struct{}

type BatchPendingCountResponse struct {
	Count int64 `json:"count"`
}
