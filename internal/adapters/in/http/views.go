package http

import (
	"time"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

type requirementView struct {
	Index           int    `json:"index"`
	AssetType       string `json:"assetType"`
	ContractorID    string `json:"contractorId,omitempty"`
	IsDirectOffer   bool   `json:"isDirectOffer"`
	PlannedUnits    int    `json:"plannedUnits"`
	AssignedUnits   int    `json:"assignedUnits"`
	Remaining       int    `json:"remaining"`
	CustomerPrice   string `json:"customerPrice"`
	ContractorPrice string `json:"contractorPrice"`
}

type bidView struct {
	ID            string     `json:"id"`
	ContractorID  string     `json:"contractorId"`
	DriverName    string     `json:"driverName"`
	AssetType     string     `json:"assetType"`
	ProposedPrice string     `json:"proposedPrice"`
	ETA           *time.Time `json:"eta,omitempty"`
	Comment       string     `json:"comment,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	DecidedAt     *time.Time `json:"decidedAt,omitempty"`
	DecidedBy     string     `json:"decidedBy,omitempty"`
}

type assignmentView struct {
	ID             string     `json:"id"`
	BidID          *string    `json:"bidId,omitempty"`
	DriverName     string     `json:"driverName"`
	ContractorID   string     `json:"contractorId"`
	AssetType      string     `json:"assetType"`
	AssignedPrice  string     `json:"assignedPrice"`
	Status         string     `json:"status"`
	AssignedBy     string     `json:"assignedBy"`
	AssignedAt     time.Time  `json:"assignedAt"`
	ArrivedAt      *time.Time `json:"arrivedAt,omitempty"`
	StartedAt      *time.Time `json:"startedAt,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	ShiftStartTime *time.Time `json:"shiftStartTime,omitempty"`
	ShiftEndTime   *time.Time `json:"shiftEndTime,omitempty"`
}

type geoPointView struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type photoView struct {
	URL     string    `json:"url"`
	TakenAt time.Time `json:"takenAt"`
}

type evidenceView struct {
	ID              string        `json:"id"`
	DriverName      string        `json:"driverName"`
	TripNumber      int           `json:"tripNumber"`
	Timestamp       time.Time     `json:"timestamp"`
	Coordinates     *geoPointView `json:"coordinates,omitempty"`
	Photos          []photoView   `json:"photos"`
	Confirmed       bool          `json:"confirmed"`
	ConfirmedAt     *time.Time    `json:"confirmedAt,omitempty"`
	ConfirmedBy     string        `json:"confirmedBy,omitempty"`
	RejectionReason string        `json:"rejectionReason,omitempty"`
	RejectedAt      *time.Time    `json:"rejectedAt,omitempty"`
	RejectedBy      string        `json:"rejectedBy,omitempty"`
}

type actionView struct {
	Timestamp     time.Time `json:"timestamp"`
	Action        string    `json:"action"`
	ActionType    string    `json:"actionType"`
	PerformedBy   string    `json:"performedBy"`
	PreviousValue string    `json:"previousValue,omitempty"`
	NewValue      string    `json:"newValue,omitempty"`
}

type orderView struct {
	ID           string            `json:"id"`
	Number       string            `json:"number"`
	CustomerID   string            `json:"customerId"`
	Address      string            `json:"address"`
	WorkDate     time.Time         `json:"workDate"`
	Status       string            `json:"status"`
	IsBirzhaOpen bool              `json:"isBirzhaOpen"`
	IsFrozen     bool              `json:"isFrozen"`
	PlannedTrips int               `json:"plannedTrips"`
	ActualTrips  int               `json:"actualTrips"`
	Requirements []requirementView `json:"requirements"`
	Bids         []bidView         `json:"bids"`
	Assignments  []assignmentView  `json:"assignments"`
	Evidences    []evidenceView    `json:"evidences"`
	ActionLog    []actionView      `json:"actionLog"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

func newOrderView(o *order.Order) orderView {
	v := orderView{
		ID:           o.ID().String(),
		Number:       o.Number(),
		CustomerID:   o.CustomerID(),
		Address:      o.Address(),
		WorkDate:     o.WorkDate(),
		Status:       o.Status().String(),
		IsBirzhaOpen: o.IsBirzhaOpen(),
		IsFrozen:     o.IsFrozen(),
		PlannedTrips: o.PlannedTrips(),
		ActualTrips:  o.ActualTrips(),
		Requirements: []requirementView{},
		Bids:         []bidView{},
		Assignments:  []assignmentView{},
		Evidences:    []evidenceView{},
		ActionLog:    []actionView{},
		CreatedAt:    o.CreatedAt(),
		UpdatedAt:    o.UpdatedAt(),
	}

	for _, s := range o.Slots() {
		r := s.Requirement
		v.Requirements = append(v.Requirements, requirementView{
			Index:           s.Index,
			AssetType:       r.AssetType().String(),
			ContractorID:    r.ContractorID(),
			IsDirectOffer:   r.IsDirectOffer(),
			PlannedUnits:    r.PlannedUnits(),
			AssignedUnits:   s.AssignedCount,
			Remaining:       s.Remaining,
			CustomerPrice:   r.CustomerPrice().String(),
			ContractorPrice: r.ContractorPrice().String(),
		})
	}
	for _, b := range o.Bids() {
		v.Bids = append(v.Bids, bidView{
			ID:            b.ID().String(),
			ContractorID:  b.ContractorID(),
			DriverName:    b.DriverName(),
			AssetType:     b.AssetType().String(),
			ProposedPrice: b.ProposedPrice().String(),
			ETA:           b.ETA(),
			Comment:       b.Comment(),
			Status:        b.Status().String(),
			CreatedAt:     b.CreatedAt(),
			DecidedAt:     b.DecidedAt(),
			DecidedBy:     b.DecidedBy(),
		})
	}
	for _, a := range o.Assignments() {
		v.Assignments = append(v.Assignments, newAssignmentView(a))
	}
	for _, e := range o.Evidences() {
		v.Evidences = append(v.Evidences, newEvidenceView(e))
	}
	for _, a := range o.ActionLog() {
		v.ActionLog = append(v.ActionLog, actionView{
			Timestamp:     a.Timestamp(),
			Action:        a.Action(),
			ActionType:    a.ActionType().String(),
			PerformedBy:   a.PerformedBy(),
			PreviousValue: a.PreviousValue(),
			NewValue:      a.NewValue(),
		})
	}
	return v
}

func newAssignmentView(a order.DriverAssignment) assignmentView {
	v := assignmentView{
		ID:             a.ID().String(),
		DriverName:     a.DriverName(),
		ContractorID:   a.ContractorID(),
		AssetType:      a.AssetType().String(),
		AssignedPrice:  a.AssignedPrice().String(),
		Status:         a.Status().String(),
		AssignedBy:     a.AssignedBy(),
		AssignedAt:     a.AssignedAt(),
		ArrivedAt:      a.ArrivedAt(),
		StartedAt:      a.StartedAt(),
		CompletedAt:    a.CompletedAt(),
		ShiftStartTime: a.ShiftStartTime(),
		ShiftEndTime:   a.ShiftEndTime(),
	}
	if id := a.BidID(); id != nil {
		s := id.String()
		v.BidID = &s
	}
	return v
}

func newEvidenceView(e order.TripEvidence) evidenceView {
	v := evidenceView{
		ID:              e.ID().String(),
		DriverName:      e.DriverName(),
		TripNumber:      e.TripNumber(),
		Timestamp:       e.Timestamp(),
		Photos:          make([]photoView, 0, len(e.Photos())),
		Confirmed:       e.Confirmed(),
		ConfirmedAt:     e.ConfirmedAt(),
		ConfirmedBy:     e.ConfirmedBy(),
		RejectionReason: e.RejectionReason(),
		RejectedAt:      e.RejectedAt(),
		RejectedBy:      e.RejectedBy(),
	}
	if p := e.Coordinates(); p != nil {
		v.Coordinates = &geoPointView{Lat: p.Lat(), Lon: p.Lon()}
	}
	for _, p := range e.Photos() {
		v.Photos = append(v.Photos, photoView{URL: p.URL(), TakenAt: p.TakenAt()})
	}
	return v
}

type orderSummaryView struct {
	ID           string    `json:"id"`
	Number       string    `json:"number"`
	CustomerID   string    `json:"customerId"`
	Address      string    `json:"address"`
	Status       string    `json:"status"`
	WorkDate     time.Time `json:"workDate"`
	IsBirzhaOpen bool      `json:"isBirzhaOpen"`
	IsFrozen     bool      `json:"isFrozen"`
	PlannedTrips int       `json:"plannedTrips"`
	ActualTrips  int       `json:"actualTrips"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func newOrderSummaryViews(rows []ports.OrderSummary) []orderSummaryView {
	views := make([]orderSummaryView, 0, len(rows))
	for _, r := range rows {
		views = append(views, orderSummaryView(r))
	}
	return views
}

type slotView struct {
	OrderID          string    `json:"orderId"`
	OrderNumber      string    `json:"orderNumber"`
	Address          string    `json:"address"`
	WorkDate         time.Time `json:"workDate"`
	CustomerID       string    `json:"customerId"`
	CustomerName     string    `json:"customerName,omitempty"`
	RequirementIndex int       `json:"requirementIndex"`
	AssetType        string    `json:"assetType"`
	ContractorID     string    `json:"contractorId,omitempty"`
	IsDirectOffer    bool      `json:"isDirectOffer"`
	PlannedUnits     int       `json:"plannedUnits"`
	Remaining        int       `json:"remaining"`
	ContractorPrice  string    `json:"contractorPrice"`
}

func newSlotViews(slots []queries.MarketplaceSlotView) []slotView {
	views := make([]slotView, 0, len(slots))
	for _, s := range slots {
		views = append(views, slotView{
			OrderID:          s.OrderID.String(),
			OrderNumber:      s.OrderNumber,
			Address:          s.Address,
			WorkDate:         s.WorkDate,
			CustomerID:       s.CustomerID,
			CustomerName:     s.CustomerName,
			RequirementIndex: s.RequirementIndex,
			AssetType:        s.AssetType.String(),
			ContractorID:     s.ContractorID,
			IsDirectOffer:    s.IsDirectOffer,
			PlannedUnits:     s.PlannedUnits,
			Remaining:        s.Remaining,
			ContractorPrice:  s.ContractorPrice.String(),
		})
	}
	return views
}

type workItemView struct {
	Assignment    assignmentView `json:"assignment"`
	OrderID       string         `json:"orderId"`
	OrderNumber   string         `json:"orderNumber"`
	Address       string         `json:"address"`
	WorkDate      time.Time      `json:"workDate"`
	OrderStatus   string         `json:"orderStatus"`
	TripsReported int            `json:"tripsReported"`
}

func newWorkItemViews(rows []queries.AssignmentView) []workItemView {
	views := make([]workItemView, 0, len(rows))
	for _, r := range rows {
		views = append(views, workItemView{
			Assignment:    newAssignmentView(r.Assignment),
			OrderID:       r.OrderID.String(),
			OrderNumber:   r.OrderNumber,
			Address:       r.Address,
			WorkDate:      r.WorkDate,
			OrderStatus:   r.OrderStatus.String(),
			TripsReported: r.TripsReported,
		})
	}
	return views
}

type earningsLineView struct {
	OrderID        string `json:"orderId"`
	OrderNumber    string `json:"orderNumber"`
	AssignmentID   string `json:"assignmentId"`
	ContractorID   string `json:"contractorId"`
	ContractorName string `json:"contractorName,omitempty"`
	DriverName     string `json:"driverName"`
	AssetType      string `json:"assetType"`
	Units          int    `json:"units"`
	PendingUnits   int    `json:"pendingUnits"`
	UnitPrice      string `json:"unitPrice"`
	Amount         string `json:"amount"`
}

type earningsView struct {
	Lines          []earningsLineView `json:"lines"`
	ConfirmedUnits int                `json:"confirmedUnits"`
	PendingUnits   int                `json:"pendingUnits"`
	Total          string             `json:"total"`
}

func newEarningsView(resp queries.GetEarningsQueryResponse) earningsView {
	v := earningsView{
		Lines:          make([]earningsLineView, 0, len(resp.Lines)),
		ConfirmedUnits: resp.ConfirmedUnits,
		PendingUnits:   resp.PendingUnits,
		Total:          resp.Total.String(),
	}
	for _, l := range resp.Lines {
		v.Lines = append(v.Lines, earningsLineView{
			OrderID:        l.OrderID.String(),
			OrderNumber:    l.OrderNumber,
			AssignmentID:   l.AssignmentID.String(),
			ContractorID:   l.ContractorID,
			ContractorName: resp.ContractorNames[l.ContractorID],
			DriverName:     l.DriverName,
			AssetType:      l.AssetType.String(),
			Units:          l.Units,
			PendingUnits:   l.PendingUnits,
			UnitPrice:      l.UnitPrice.String(),
			Amount:         l.Amount.String(),
		})
	}
	return v
}
