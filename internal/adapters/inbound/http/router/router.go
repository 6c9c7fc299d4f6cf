package router

import (
	"net/http"

	"billbridge/internal/adapters/inbound/http/controllers"
)

type Dependencies struct {
	HealthController       *controllers.HealthController
	SwaggerController      *controllers.SwaggerController
	BillPaymentsController *controllers.BillPaymentsController
	IssuersController      *controllers.IssuersController
	LNURLController        *controllers.LNURLController
}

func New(deps Dependencies) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", deps.HealthController.GetHealth)
	mux.HandleFunc("GET /swagger", deps.SwaggerController.RedirectToIndex)
	mux.HandleFunc("GET /swagger/openapi.yaml", deps.SwaggerController.GetOpenAPISpec)
	mux.HandleFunc("GET /swagger/", deps.SwaggerController.ServeUI)
	mux.HandleFunc("POST /v1/bill-payments", deps.BillPaymentsController.CreateBillPayment)
	mux.HandleFunc("GET /v1/bill-payments/{domain}/{period}/{reference}", deps.BillPaymentsController.GetBillPayment)
	mux.HandleFunc("GET /v1/issuers/{domain}", deps.IssuersController.GetIssuer)
	mux.HandleFunc("GET /api/verify", deps.IssuersController.Verify)
	mux.HandleFunc("GET /.well-known/lnurlp/{reference}", deps.LNURLController.GetPayRequest)

	return mux
}
