package ledger_iface

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	EntryServiceName         = "bookkeeping.v1.EntryService"
	WorkflowServiceName      = "bookkeeping.v1.WorkflowService"
	ReimbursementServiceName = "bookkeeping.v1.ReimbursementService"
	AccountServiceName       = "bookkeeping.v1.AccountService"
)

const (
	EntryServiceEntryCreateProcedure = "/bookkeeping.v1.EntryService/EntryCreate"
	EntryServiceEntryGetProcedure    = "/bookkeeping.v1.EntryService/EntryGet"
	EntryServiceEntryListProcedure   = "/bookkeeping.v1.EntryService/EntryList"
	EntryServiceEntryUpdateProcedure = "/bookkeeping.v1.EntryService/EntryUpdate"
	EntryServiceEntryDeleteProcedure = "/bookkeeping.v1.EntryService/EntryDelete"

	WorkflowServicePaymentConfirmProcedure     = "/bookkeeping.v1.WorkflowService/PaymentConfirm"
	WorkflowServiceInvoiceConfirmProcedure     = "/bookkeeping.v1.WorkflowService/InvoiceConfirm"
	WorkflowServiceInvoiceSkipProcedure        = "/bookkeeping.v1.WorkflowService/InvoiceSkip"
	WorkflowServiceTaxConfirmProcedure         = "/bookkeeping.v1.WorkflowService/TaxConfirm"
	WorkflowServicePendingPaymentListProcedure = "/bookkeeping.v1.WorkflowService/PendingPaymentList"
	WorkflowServicePendingInvoiceListProcedure = "/bookkeeping.v1.WorkflowService/PendingInvoiceList"
	WorkflowServicePendingTaxListProcedure     = "/bookkeeping.v1.WorkflowService/PendingTaxList"

	ReimbursementServiceBatchCreateProcedure       = "/bookkeeping.v1.ReimbursementService/BatchCreate"
	ReimbursementServiceBatchGetProcedure          = "/bookkeeping.v1.ReimbursementService/BatchGet"
	ReimbursementServiceBatchListProcedure         = "/bookkeeping.v1.ReimbursementService/BatchList"
	ReimbursementServiceBatchCompleteProcedure     = "/bookkeeping.v1.ReimbursementService/BatchComplete"
	ReimbursementServiceBatchDeleteProcedure       = "/bookkeeping.v1.ReimbursementService/BatchDelete"
	ReimbursementServiceBatchPendingCountProcedure = "/bookkeeping.v1.ReimbursementService/BatchPendingCount"

	AccountServiceAccountCreateProcedure = "/bookkeeping.v1.AccountService/AccountCreate"
	AccountServiceAccountGetProcedure    = "/bookkeeping.v1.AccountService/AccountGet"
	AccountServiceAccountListProcedure   = "/bookkeeping.v1.AccountService/AccountList"
	AccountServiceAccountDeleteProcedure = "/bookkeeping.v1.AccountService/AccountDelete"
	AccountServiceAccountVerifyProcedure = "/bookkeeping.v1.AccountService/AccountVerify"
)

type EntryServiceHandler interface {
	EntryCreate(context.Context, *connect.Request[EntryCreateRequest]) (*connect.Response[EntryCreateResponse], error)
	EntryGet(context.Context, *connect.Request[EntryGetRequest]) (*connect.Response[EntryGetResponse], error)
	EntryList(context.Context, *connect.Request[EntryListRequest]) (*connect.Response[EntryListResponse], error)
	EntryUpdate(context.Context, *connect.Request[EntryUpdateRequest]) (*connect.Response[EntryUpdateResponse], error)
	EntryDelete(context.Context, *connect.Request[EntryDeleteRequest]) (*connect.Response[EntryDeleteResponse], error)
}

type WorkflowServiceHandler interface {
	PaymentConfirm(context.Context, *connect.Request[PaymentConfirmRequest]) (*connect.Response[WorkflowResponse], error)
	InvoiceConfirm(context.Context, *connect.Request[InvoiceConfirmRequest]) (*connect.Response[WorkflowResponse], error)
	InvoiceSkip(context.Context, *connect.Request[InvoiceSkipRequest]) (*connect.Response[WorkflowResponse], error)
	TaxConfirm(context.Context, *connect.Request[TaxConfirmRequest]) (*connect.Response[WorkflowResponse], error)
	PendingPaymentList(context.Context, *connect.Request[PendingListRequest]) (*connect.Response[EntryListResponse], error)
	PendingInvoiceList(context.Context, *connect.Request[PendingListRequest]) (*connect.Response[EntryListResponse], error)
	PendingTaxList(context.Context, *connect.Request[PendingListRequest]) (*connect.Response[EntryListResponse], error)
}

type ReimbursementServiceHandler interface {
	BatchCreate(context.Context, *connect.Request[BatchCreateRequest]) (*connect.Response[BatchResponse], error)
	BatchGet(context.Context, *connect.Request[BatchGetRequest]) (*connect.Response[BatchResponse], error)
	BatchList(context.Context, *connect.Request[BatchListRequest]) (*connect.Response[BatchListResponse], error)
	BatchComplete(context.Context, *connect.Request[BatchCompleteRequest]) (*connect.Response[BatchResponse], error)
	BatchDelete(context.Context, *connect.Request[BatchDeleteRequest]) (*connect.Response[BatchDeleteResponse], error)
	BatchPendingCount(context.Context, *connect.Request[BatchPendingCountRequest]) (*connect.Response[BatchPendingCountResponse], error)
}

type AccountServiceHandler interface {
	AccountCreate(context.Context, *connect.Request[AccountCreateRequest]) (*connect.Response[AccountResponse], error)
	AccountGet(context.Context, *connect.Request[AccountGetRequest]) (*connect.Response[AccountResponse], error)
	AccountList(context.Context, *connect.Request[AccountListRequest]) (*connect.Response[AccountListResponse], error)
	AccountDelete(context.Context, *connect.Request[AccountDeleteRequest]) (*connect.Response[AccountDeleteResponse], error)
	AccountVerify(context.Context, *connect.Request[AccountVerifyRequest]) (*connect.Response[AccountVerifyResponse], error)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{
		connect.WithCodec(&JSONCodec{}),
		connect.WithInterceptors(NewErrorInterceptor()),
	}, opts...)
}

func serviceMux(service string, routes map[string]http.Handler) (string, http.Handler) {
	return "/" + service + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler, ok := routes[r.URL.Path]
		if !ok || !strings.HasPrefix(r.URL.Path, "/"+service+"/") {
			http.NotFound(w, r)
			return
		}
		handler.ServeHTTP(w, r)
	})
}

func NewEntryServiceHandler(svc EntryServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return serviceMux(EntryServiceName, map[string]http.Handler{
		EntryServiceEntryCreateProcedure: connect.NewUnaryHandler(EntryServiceEntryCreateProcedure, svc.EntryCreate, opts...),
		EntryServiceEntryGetProcedure:    connect.NewUnaryHandler(EntryServiceEntryGetProcedure, svc.EntryGet, opts...),
		EntryServiceEntryListProcedure:   connect.NewUnaryHandler(EntryServiceEntryListProcedure, svc.EntryList, opts...),
		EntryServiceEntryUpdateProcedure: connect.NewUnaryHandler(EntryServiceEntryUpdateProcedure, svc.EntryUpdate, opts...),
		EntryServiceEntryDeleteProcedure: connect.NewUnaryHandler(EntryServiceEntryDeleteProcedure, svc.EntryDelete, opts...),
	})
}

func NewWorkflowServiceHandler(svc WorkflowServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return serviceMux(WorkflowServiceName, map[string]http.Handler{
		WorkflowServicePaymentConfirmProcedure:     connect.NewUnaryHandler(WorkflowServicePaymentConfirmProcedure, svc.PaymentConfirm, opts...),
		WorkflowServiceInvoiceConfirmProcedure:     connect.NewUnaryHandler(WorkflowServiceInvoiceConfirmProcedure, svc.InvoiceConfirm, opts...),
		WorkflowServiceInvoiceSkipProcedure:        connect.NewUnaryHandler(WorkflowServiceInvoiceSkipProcedure, svc.InvoiceSkip, opts...),
		WorkflowServiceTaxConfirmProcedure:         connect.NewUnaryHandler(WorkflowServiceTaxConfirmProcedure, svc.TaxConfirm, opts...),
		WorkflowServicePendingPaymentListProcedure: connect.NewUnaryHandler(WorkflowServicePendingPaymentListProcedure, svc.PendingPaymentList, opts...),
		WorkflowServicePendingInvoiceListProcedure: connect.NewUnaryHandler(WorkflowServicePendingInvoiceListProcedure, svc.PendingInvoiceList, opts...),
		WorkflowServicePendingTaxListProcedure:     connect.NewUnaryHandler(WorkflowServicePendingTaxListProcedure, svc.PendingTaxList, opts...),
	})
}

func NewReimbursementServiceHandler(svc ReimbursementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return serviceMux(ReimbursementServiceName, map[string]http.Handler{
		ReimbursementServiceBatchCreateProcedure:       connect.NewUnaryHandler(ReimbursementServiceBatchCreateProcedure, svc.BatchCreate, opts...),
		ReimbursementServiceBatchGetProcedure:          connect.NewUnaryHandler(ReimbursementServiceBatchGetProcedure, svc.BatchGet, opts...),
		ReimbursementServiceBatchListProcedure:         connect.NewUnaryHandler(ReimbursementServiceBatchListProcedure, svc.BatchList, opts...),
		ReimbursementServiceBatchCompleteProcedure:     connect.NewUnaryHandler(ReimbursementServiceBatchCompleteProcedure, svc.BatchComplete, opts...),
		ReimbursementServiceBatchDeleteProcedure:       connect.NewUnaryHandler(ReimbursementServiceBatchDeleteProcedure, svc.BatchDelete, opts...),
		ReimbursementServiceBatchPendingCountProcedure: connect.NewUnaryHandler(ReimbursementServiceBatchPendingCountProcedure, svc.BatchPendingCount, opts...),
	})
}

func NewAccountServiceHandler(svc AccountServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return serviceMux(AccountServiceName, map[string]http.Handler{
		AccountServiceAccountCreateProcedure: connect.NewUnaryHandler(AccountServiceAccountCreateProcedure, svc.AccountCreate, opts...),
		AccountServiceAccountGetProcedure:    connect.NewUnaryHandler(AccountServiceAccountGetProcedure, svc.AccountGet, opts...),
		AccountServiceAccountListProcedure:   connect.NewUnaryHandler(AccountServiceAccountListProcedure, svc.AccountList, opts...),
		AccountServiceAccountDeleteProcedure: connect.NewUnaryHandler(AccountServiceAccountDeleteProcedure, svc.AccountDelete, opts...),
		AccountServiceAccountVerifyProcedure: connect.NewUnaryHandler(AccountServiceAccountVerifyProcedure, svc.AccountVerify, opts...),
	})
}

// NewUnaryClient builds a JSON connect client for one procedure.
func NewUnaryClient[Req, Res any](httpClient connect.HTTPClient, baseURL string, procedure string, opts ...connect.ClientOption) *connect.Client[Req, Res] {
	opts = append([]connect.ClientOption{
		connect.WithCodec(&JSONCodec{}),
	}, opts...)
	return connect.NewClient[Req, Res](httpClient, strings.TrimRight(baseURL, "/")+procedure, opts...)
}
