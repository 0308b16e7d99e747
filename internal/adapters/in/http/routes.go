package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ListOrdersParams defines parameters for ListOrders.
type ListOrdersParams struct {
	Status     *[]string  `form:"status,omitempty" json:"status,omitempty"`
	From       *time.Time `form:"from,omitempty" json:"from,omitempty"`
	To         *time.Time `form:"to,omitempty" json:"to,omitempty"`
	CustomerId *string    `form:"customerId,omitempty" json:"customerId,omitempty"`
	Limit      *int       `form:"limit,omitempty" json:"limit,omitempty"`
	Offset     *int       `form:"offset,omitempty" json:"offset,omitempty"`
}

// WorkFilterParams defines parameters for ListAssignments and GetEarnings.
type WorkFilterParams struct {
	ContractorId *string `form:"contractorId,omitempty" json:"contractorId,omitempty"`
	DriverName   *string `form:"driverName,omitempty" json:"driverName,omitempty"`
}

// ServerInterface represents all server handlers of openapi.yaml.
type ServerInterface interface {
	ListOrders(ctx echo.Context, params ListOrdersParams) error
	CreateOrder(ctx echo.Context) error
	GetOrder(ctx echo.Context, orderId string) error
	ChangeStatus(ctx echo.Context, orderId string) error
	SetMarketplaceOpen(ctx echo.Context, orderId string) error
	UpdateRequirementPrices(ctx echo.Context, orderId string, index int) error

	SubmitBid(ctx echo.Context, orderId string) error
	ApproveBid(ctx echo.Context, orderId string, bidId string) error
	RejectBid(ctx echo.Context, orderId string, bidId string) error
	WithdrawBid(ctx echo.Context, orderId string, bidId string) error

	AcceptJob(ctx echo.Context, orderId string) error
	UpdateAssignmentStatus(ctx echo.Context, orderId string, assignmentId string) error
	StartShift(ctx echo.Context, orderId string, assignmentId string) error
	EndShift(ctx echo.Context, orderId string, assignmentId string) error

	ReportTrip(ctx echo.Context, orderId string) error
	ConfirmTrip(ctx echo.Context, orderId string, evidenceId string) error
	RejectTrip(ctx echo.Context, orderId string, evidenceId string) error

	ListMarketplaceSlots(ctx echo.Context, contractorId string) error
	ListAssignments(ctx echo.Context, params WorkFilterParams) error
	GetEarnings(ctx echo.Context, params WorkFilterParams) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func bindPath(ctx echo.Context, name string, dest any) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return nil
}

func bindQuery(ctx echo.Context, name string, explode bool, dest any) error {
	err := runtime.BindQueryParameter("form", explode, false, name, ctx.QueryParams(), dest)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return nil
}

func (w *ServerInterfaceWrapper) ListOrders(ctx echo.Context) error {
	var params ListOrdersParams
	if err := bindQuery(ctx, "status", true, &params.Status); err != nil {
		return err
	}
	if err := bindQuery(ctx, "from", true, &params.From); err != nil {
		return err
	}
	if err := bindQuery(ctx, "to", true, &params.To); err != nil {
		return err
	}
	if err := bindQuery(ctx, "customerId", true, &params.CustomerId); err != nil {
		return err
	}
	if err := bindQuery(ctx, "limit", true, &params.Limit); err != nil {
		return err
	}
	if err := bindQuery(ctx, "offset", true, &params.Offset); err != nil {
		return err
	}
	return w.Handler.ListOrders(ctx, params)
}

func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	var orderId string
	if err := bindPath(ctx, "orderId", &orderId); err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, orderId)
}

func (w *ServerInterfaceWrapper) ChangeStatus(ctx echo.Context) error {
	var orderId string
	if err := bindPath(ctx, "orderId", &orderId); err != nil {
		return err
	}
	return w.Handler.ChangeStatus(ctx, orderId)
}

func (w *ServerInterfaceWrapper) SetMarketplaceOpen(ctx echo.Context) error {
	var orderId string
	if err := bindPath(ctx, "orderId", &orderId); err != nil {
		return err
	}
	return w.Handler.SetMarketplaceOpen(ctx, orderId)
}

func (w *ServerInterfaceWrapper) UpdateRequirementPrices(ctx echo.Context) error {
	var orderId string
	if err := bindPath(ctx, "orderId", &orderId); err != nil {
		return err
	}
	var index int
	if err := bindPath(ctx, "index", &index); err != nil {
		return err
	}
	return w.Handler.UpdateRequirementPrices(ctx, orderId, index)
}

func (w *ServerInterfaceWrapper) SubmitBid(ctx echo.Context) error {
	var orderId string
	if err := bindPath(ctx, "orderId", &orderId); err != nil {
		return err
	}
	return w.Handler.SubmitBid(ctx, orderId)
}

func (w *ServerInterfaceWrapper) bidParams(ctx echo.Context) (string, string, error) {
	var orderId, bidId string
	if err := bindPath(ctx, "orderId", &orderId); err != nil {
		return "", "", err
	}
	if err := bindPath(ctx, "bidId", &bidId); err != nil {
		return "", "", err
	}
	return orderId, bidId, nil
}

func (w *ServerInterfaceWrapper) ApproveBid(ctx echo.Context) error {
	orderId, bidId, err := w.bidParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ApproveBid(ctx, orderId, bidId)
}

func (w *ServerInterfaceWrapper) RejectBid(ctx echo.Context) error {
	orderId, bidId, err := w.bidParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.RejectBid(ctx, orderId, bidId)
}

func (w *ServerInterfaceWrapper) WithdrawBid(ctx echo.Context) error {
	orderId, bidId, err := w.bidParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.WithdrawBid(ctx, orderId, bidId)
}

func (w *ServerInterfaceWrapper) AcceptJob(ctx echo.Context) error {
	var orderId string
	if err := bindPath(ctx, "orderId", &orderId); err != nil {
		return err
	}
	return w.Handler.AcceptJob(ctx, orderId)
}

func (w *ServerInterfaceWrapper) assignmentParams(ctx echo.Context) (string, string, error) {
	var orderId, assignmentId string
	if err := bindPath(ctx, "orderId", &orderId); err != nil {
		return "", "", err
	}
	if err := bindPath(ctx, "assignmentId", &assignmentId); err != nil {
		return "", "", err
	}
	return orderId, assignmentId, nil
}

func (w *ServerInterfaceWrapper) UpdateAssignmentStatus(ctx echo.Context) error {
	orderId, assignmentId, err := w.assignmentParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.UpdateAssignmentStatus(ctx, orderId, assignmentId)
}

func (w *ServerInterfaceWrapper) StartShift(ctx echo.Context) error {
	orderId, assignmentId, err := w.assignmentParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.StartShift(ctx, orderId, assignmentId)
}

func (w *ServerInterfaceWrapper) EndShift(ctx echo.Context) error {
	orderId, assignmentId, err := w.assignmentParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.EndShift(ctx, orderId, assignmentId)
}

func (w *ServerInterfaceWrapper) ReportTrip(ctx echo.Context) error {
	var orderId string
	if err := bindPath(ctx, "orderId", &orderId); err != nil {
		return err
	}
	return w.Handler.ReportTrip(ctx, orderId)
}

func (w *ServerInterfaceWrapper) evidenceParams(ctx echo.Context) (string, string, error) {
	var orderId, evidenceId string
	if err := bindPath(ctx, "orderId", &orderId); err != nil {
		return "", "", err
	}
	if err := bindPath(ctx, "evidenceId", &evidenceId); err != nil {
		return "", "", err
	}
	return orderId, evidenceId, nil
}

func (w *ServerInterfaceWrapper) ConfirmTrip(ctx echo.Context) error {
	orderId, evidenceId, err := w.evidenceParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ConfirmTrip(ctx, orderId, evidenceId)
}

func (w *ServerInterfaceWrapper) RejectTrip(ctx echo.Context) error {
	orderId, evidenceId, err := w.evidenceParams(ctx)
	if err != nil {
		return err
	}
	return w.Handler.RejectTrip(ctx, orderId, evidenceId)
}

func (w *ServerInterfaceWrapper) ListMarketplaceSlots(ctx echo.Context) error {
	var contractorId *string
	if err := bindQuery(ctx, "contractorId", true, &contractorId); err != nil {
		return err
	}
	if contractorId == nil {
		return w.Handler.ListMarketplaceSlots(ctx, "")
	}
	return w.Handler.ListMarketplaceSlots(ctx, *contractorId)
}

func (w *ServerInterfaceWrapper) workFilter(ctx echo.Context) (WorkFilterParams, error) {
	var params WorkFilterParams
	if err := bindQuery(ctx, "contractorId", true, &params.ContractorId); err != nil {
		return params, err
	}
	if err := bindQuery(ctx, "driverName", true, &params.DriverName); err != nil {
		return params, err
	}
	return params, nil
}

func (w *ServerInterfaceWrapper) ListAssignments(ctx echo.Context) error {
	params, err := w.workFilter(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ListAssignments(ctx, params)
}

func (w *ServerInterfaceWrapper) GetEarnings(ctx echo.Context) error {
	params, err := w.workFilter(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetEarnings(ctx, params)
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the router.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.GET(baseURL+"/api/v1/orders", wrapper.ListOrders)
	router.POST(baseURL+"/api/v1/orders", wrapper.CreateOrder)
	router.GET(baseURL+"/api/v1/orders/:orderId", wrapper.GetOrder)
	router.POST(baseURL+"/api/v1/orders/:orderId/status", wrapper.ChangeStatus)
	router.PUT(baseURL+"/api/v1/orders/:orderId/marketplace", wrapper.SetMarketplaceOpen)
	router.PUT(baseURL+"/api/v1/orders/:orderId/requirements/:index/prices", wrapper.UpdateRequirementPrices)

	router.POST(baseURL+"/api/v1/orders/:orderId/bids", wrapper.SubmitBid)
	router.POST(baseURL+"/api/v1/orders/:orderId/bids/:bidId/approve", wrapper.ApproveBid)
	router.POST(baseURL+"/api/v1/orders/:orderId/bids/:bidId/reject", wrapper.RejectBid)
	router.POST(baseURL+"/api/v1/orders/:orderId/bids/:bidId/withdraw", wrapper.WithdrawBid)

	router.POST(baseURL+"/api/v1/orders/:orderId/assignments", wrapper.AcceptJob)
	router.PUT(baseURL+"/api/v1/orders/:orderId/assignments/:assignmentId/status", wrapper.UpdateAssignmentStatus)
	router.POST(baseURL+"/api/v1/orders/:orderId/assignments/:assignmentId/shift/start", wrapper.StartShift)
	router.POST(baseURL+"/api/v1/orders/:orderId/assignments/:assignmentId/shift/end", wrapper.EndShift)

	router.POST(baseURL+"/api/v1/orders/:orderId/trips", wrapper.ReportTrip)
	router.POST(baseURL+"/api/v1/orders/:orderId/trips/:evidenceId/confirm", wrapper.ConfirmTrip)
	router.POST(baseURL+"/api/v1/orders/:orderId/trips/:evidenceId/reject", wrapper.RejectTrip)

	router.GET(baseURL+"/api/v1/marketplace/slots", wrapper.ListMarketplaceSlots)
	router.GET(baseURL+"/api/v1/assignments", wrapper.ListAssignments)
	router.GET(baseURL+"/api/v1/earnings", wrapper.GetEarnings)
}
