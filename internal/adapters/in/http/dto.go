package http

import (
	"time"

	"dispatch/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type requirementRequest struct {
	AssetType       string `json:"assetType" validate:"required"`
	ContractorID    string `json:"contractorId"`
	PlannedUnits    int    `json:"plannedUnits" validate:"gte=1"`
	CustomerPrice   string `json:"customerPrice" validate:"required,numeric"`
	ContractorPrice string `json:"contractorPrice" validate:"required,numeric"`
}

type createOrderRequest struct {
	CustomerID   string               `json:"customerId" validate:"required"`
	Address      string               `json:"address" validate:"required"`
	WorkDate     time.Time            `json:"workDate" validate:"required"`
	PlannedTrips int                  `json:"plannedTrips" validate:"gte=0"`
	IsBirzhaOpen bool                 `json:"isBirzhaOpen"`
	Requirements []requirementRequest `json:"requirements" validate:"required,min=1,dive"`
}

type changeStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Force  bool   `json:"force"`
}

type setMarketplaceOpenRequest struct {
	Open bool `json:"open"`
}

type updatePricesRequest struct {
	CustomerPrice   string `json:"customerPrice" validate:"required,numeric"`
	ContractorPrice string `json:"contractorPrice" validate:"required,numeric"`
}

type submitBidRequest struct {
	ContractorID string     `json:"contractorId" validate:"required"`
	DriverName   string     `json:"driverName" validate:"required"`
	AssetType    string     `json:"assetType" validate:"required"`
	Price        string     `json:"price" validate:"required,numeric"`
	ETA          *time.Time `json:"eta"`
	Comment      string     `json:"comment" validate:"max=1000"`
}

type acceptJobRequest struct {
	ContractorID string `json:"contractorId" validate:"required"`
	DriverName   string `json:"driverName" validate:"required"`
	AssetType    string `json:"assetType" validate:"required"`
}

type assignmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type shiftRequest struct {
	At *time.Time `json:"at"`
}

type geoPointRequest struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

type photoRequest struct {
	URL     string     `json:"url" validate:"required"`
	TakenAt *time.Time `json:"takenAt"`
}

type reportTripRequest struct {
	DriverName  string           `json:"driverName" validate:"required"`
	Coordinates *geoPointRequest `json:"coordinates"`
	Photos      []photoRequest   `json:"photos" validate:"dive"`
}

type rejectTripRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type createdOrderResponse struct {
	ID     string `json:"id"`
	Number string `json:"number"`
}

type createdIDResponse struct {
	ID string `json:"id"`
}

type reportedTripResponse struct {
	ID         string `json:"id"`
	TripNumber int    `json:"tripNumber"`
}

// requestValidator plugs validator/v10 into echo.Context.Validate.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{validate: validator.New()}
}

func (v *requestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request", err)
	}
	return nil
}

// bind decodes the body into req and validates it.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return c.Validate(req)
}

func actor(c echo.Context) string {
	return c.Request().Header.Get("X-Actor")
}
