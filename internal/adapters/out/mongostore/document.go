// Package mongostore stores each Order aggregate as a single document with its
// children embedded. Outbox events ride in the same document, so one write
// commits the order and its events together without multi-document
// transactions.
package mongostore

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

const (
	ordersCollection    = "orders"
	companiesCollection = "companies"
)

type orderDocument struct {
	ID           string                `bson:"_id"`
	Number       string                `bson:"number"`
	CustomerID   string                `bson:"customerId"`
	Address      string                `bson:"address"`
	WorkDate     time.Time             `bson:"workDate"`
	IsBirzhaOpen bool                  `bson:"isBirzhaOpen"`
	Status       string                `bson:"status"`
	PlannedTrips int                   `bson:"plannedTrips"`
	ActualTrips  int                   `bson:"actualTrips"`
	IsFrozen     bool                  `bson:"isFrozen"`
	CreatedAt    time.Time             `bson:"createdAt"`
	UpdatedAt    time.Time             `bson:"updatedAt"`
	Version      int64                 `bson:"version"`
	Requirements []requirementDocument `bson:"requirements"`
	Bids         []bidDocument         `bson:"bids"`
	Assignments  []assignmentDocument  `bson:"assignments"`
	Evidences    []evidenceDocument    `bson:"evidences"`
	ActionLog    []actionDocument      `bson:"actionLog"`
	Outbox       []eventDocument       `bson:"outbox"`
}

type requirementDocument struct {
	AssetType       string `bson:"assetType"`
	ContractorID    string `bson:"contractorId,omitempty"`
	PlannedUnits    int    `bson:"plannedUnits"`
	CustomerPrice   string `bson:"customerPrice"`
	ContractorPrice string `bson:"contractorPrice"`
}

type bidDocument struct {
	ID            string     `bson:"id"`
	ContractorID  string     `bson:"contractorId"`
	DriverName    string     `bson:"driverName,omitempty"`
	AssetType     string     `bson:"assetType"`
	ProposedPrice string     `bson:"proposedPrice"`
	ETA           *time.Time `bson:"eta,omitempty"`
	Comment       string     `bson:"comment,omitempty"`
	Status        string     `bson:"status"`
	CreatedAt     time.Time  `bson:"createdAt"`
	DecidedAt     *time.Time `bson:"decidedAt,omitempty"`
	DecidedBy     string     `bson:"decidedBy,omitempty"`
}

type assignmentDocument struct {
	ID             string     `bson:"id"`
	BidID          string     `bson:"bidId,omitempty"`
	DriverName     string     `bson:"driverName,omitempty"`
	ContractorID   string     `bson:"contractorId"`
	AssetType      string     `bson:"assetType"`
	AssignedPrice  string     `bson:"assignedPrice"`
	Status         string     `bson:"status"`
	AssignedBy     string     `bson:"assignedBy,omitempty"`
	AssignedAt     time.Time  `bson:"assignedAt"`
	ArrivedAt      *time.Time `bson:"arrivedAt,omitempty"`
	StartedAt      *time.Time `bson:"startedAt,omitempty"`
	CompletedAt    *time.Time `bson:"completedAt,omitempty"`
	ShiftStartTime *time.Time `bson:"shiftStartTime,omitempty"`
	ShiftEndTime   *time.Time `bson:"shiftEndTime,omitempty"`
}

type photoDocument struct {
	URL     string    `bson:"url"`
	TakenAt time.Time `bson:"takenAt"`
}

type geoPointDocument struct {
	Lat float64 `bson:"lat"`
	Lon float64 `bson:"lon"`
}

type evidenceDocument struct {
	ID              string            `bson:"id"`
	DriverName      string            `bson:"driverName"`
	TripNumber      int               `bson:"tripNumber"`
	Timestamp       time.Time         `bson:"timestamp"`
	Coordinates     *geoPointDocument `bson:"coordinates,omitempty"`
	Photos          []photoDocument   `bson:"photos"`
	Confirmed       bool              `bson:"confirmed"`
	ConfirmedAt     *time.Time        `bson:"confirmedAt,omitempty"`
	ConfirmedBy     string            `bson:"confirmedBy,omitempty"`
	RejectionReason string            `bson:"rejectionReason,omitempty"`
	RejectedAt      *time.Time        `bson:"rejectedAt,omitempty"`
	RejectedBy      string            `bson:"rejectedBy,omitempty"`
}

type actionDocument struct {
	Timestamp     time.Time `bson:"timestamp"`
	Action        string    `bson:"action"`
	ActionType    string    `bson:"actionType"`
	PerformedBy   string    `bson:"performedBy"`
	PreviousValue string    `bson:"previousValue,omitempty"`
	NewValue      string    `bson:"newValue,omitempty"`
}

type eventDocument struct {
	ID            string     `bson:"id"`
	OrderID       string     `bson:"orderId"`
	OrderNumber   string     `bson:"orderNumber"`
	ActionType    string     `bson:"actionType"`
	Action        string     `bson:"action"`
	PerformedBy   string     `bson:"performedBy"`
	PreviousValue string     `bson:"previousValue,omitempty"`
	NewValue      string     `bson:"newValue,omitempty"`
	OrderStatus   string     `bson:"orderStatus"`
	OccurredAt    time.Time  `bson:"occurredAt"`
	PublishedAt   *time.Time `bson:"publishedAt"`
}

type companyDocument struct {
	ID     string  `bson:"_id"`
	Name   string  `bson:"name"`
	Kind   string  `bson:"kind"`
	Rating float64 `bson:"rating"`
}

func newOrderDocument(o *order.Order) orderDocument {
	doc := orderDocument{
		ID:           o.ID().String(),
		Number:       o.Number(),
		CustomerID:   o.CustomerID(),
		Address:      o.Address(),
		WorkDate:     o.WorkDate(),
		IsBirzhaOpen: o.IsBirzhaOpen(),
		Status:       o.Status().String(),
		PlannedTrips: o.PlannedTrips(),
		ActualTrips:  o.ActualTrips(),
		IsFrozen:     o.IsFrozen(),
		CreatedAt:    o.CreatedAt(),
		UpdatedAt:    o.UpdatedAt(),
		Requirements: make([]requirementDocument, 0),
		Bids:         make([]bidDocument, 0),
		Assignments:  make([]assignmentDocument, 0),
		Evidences:    make([]evidenceDocument, 0),
		ActionLog:    make([]actionDocument, 0),
		Outbox:       make([]eventDocument, 0),
	}

	for _, r := range o.Requirements() {
		doc.Requirements = append(doc.Requirements, requirementDocument{
			AssetType:       r.AssetType().String(),
			ContractorID:    r.ContractorID(),
			PlannedUnits:    r.PlannedUnits(),
			CustomerPrice:   r.CustomerPrice().String(),
			ContractorPrice: r.ContractorPrice().String(),
		})
	}
	for _, b := range o.Bids() {
		doc.Bids = append(doc.Bids, bidDocument{
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
		var bidID string
		if id := a.BidID(); id != nil {
			bidID = id.String()
		}
		doc.Assignments = append(doc.Assignments, assignmentDocument{
			ID:             a.ID().String(),
			BidID:          bidID,
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
		})
	}
	for _, e := range o.Evidences() {
		evidence := evidenceDocument{
			ID:              e.ID().String(),
			DriverName:      e.DriverName(),
			TripNumber:      e.TripNumber(),
			Timestamp:       e.Timestamp(),
			Photos:          make([]photoDocument, 0, len(e.Photos())),
			Confirmed:       e.Confirmed(),
			ConfirmedAt:     e.ConfirmedAt(),
			ConfirmedBy:     e.ConfirmedBy(),
			RejectionReason: e.RejectionReason(),
			RejectedAt:      e.RejectedAt(),
			RejectedBy:      e.RejectedBy(),
		}
		if c := e.Coordinates(); c != nil {
			evidence.Coordinates = &geoPointDocument{Lat: c.Lat(), Lon: c.Lon()}
		}
		for _, p := range e.Photos() {
			evidence.Photos = append(evidence.Photos, photoDocument{URL: p.URL(), TakenAt: p.TakenAt()})
		}
		doc.Evidences = append(doc.Evidences, evidence)
	}
	for _, entry := range o.ActionLog() {
		doc.ActionLog = append(doc.ActionLog, actionDocument{
			Timestamp:     entry.Timestamp(),
			Action:        entry.Action(),
			ActionType:    entry.ActionType().String(),
			PerformedBy:   entry.PerformedBy(),
			PreviousValue: entry.PreviousValue(),
			NewValue:      entry.NewValue(),
		})
	}

	return doc
}

func newEventDocument(e ports.OrderEvent) eventDocument {
	return eventDocument{
		ID:            e.ID.String(),
		OrderID:       e.OrderID.String(),
		OrderNumber:   e.OrderNumber,
		ActionType:    e.ActionType,
		Action:        e.Action,
		PerformedBy:   e.PerformedBy,
		PreviousValue: e.PreviousValue,
		NewValue:      e.NewValue,
		OrderStatus:   e.OrderStatus,
		OccurredAt:    e.OccurredAt,
	}
}

func (d eventDocument) toEvent() (ports.OrderEvent, error) {
	id, err := kernel.UUIDFromString(d.ID)
	if err != nil {
		return ports.OrderEvent{}, err
	}
	orderID, err := kernel.UUIDFromString(d.OrderID)
	if err != nil {
		return ports.OrderEvent{}, err
	}
	return ports.OrderEvent{
		ID:            id,
		OrderID:       orderID,
		OrderNumber:   d.OrderNumber,
		ActionType:    d.ActionType,
		Action:        d.Action,
		PerformedBy:   d.PerformedBy,
		PreviousValue: d.PreviousValue,
		NewValue:      d.NewValue,
		OrderStatus:   d.OrderStatus,
		OccurredAt:    d.OccurredAt,
	}, nil
}

func (d orderDocument) toSummary() ports.OrderSummary {
	return ports.OrderSummary{
		ID:           d.ID,
		Number:       d.Number,
		CustomerID:   d.CustomerID,
		Address:      d.Address,
		Status:       d.Status,
		WorkDate:     d.WorkDate,
		IsBirzhaOpen: d.IsBirzhaOpen,
		IsFrozen:     d.IsFrozen,
		PlannedTrips: d.PlannedTrips,
		ActualTrips:  d.ActualTrips,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func (d orderDocument) toDomain() (*order.Order, error) {
	id, err := kernel.UUIDFromString(d.ID)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(d.Status)
	if err != nil {
		return nil, err
	}

	snapshot := order.Snapshot{
		ID:           id,
		Number:       d.Number,
		CustomerID:   d.CustomerID,
		Address:      d.Address,
		WorkDate:     d.WorkDate,
		IsBirzhaOpen: d.IsBirzhaOpen,
		Status:       status,
		PlannedTrips: d.PlannedTrips,
		IsFrozen:     d.IsFrozen,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		Version:      d.Version,
	}

	for _, r := range d.Requirements {
		requirement, rErr := r.toDomain()
		if rErr != nil {
			return nil, rErr
		}
		snapshot.Requirements = append(snapshot.Requirements, requirement)
	}
	for _, b := range d.Bids {
		bid, bErr := b.toDomain(id)
		if bErr != nil {
			return nil, bErr
		}
		snapshot.Bids = append(snapshot.Bids, bid)
	}
	for _, a := range d.Assignments {
		assignment, aErr := a.toDomain(id)
		if aErr != nil {
			return nil, aErr
		}
		snapshot.Assignments = append(snapshot.Assignments, assignment)
	}
	for _, e := range d.Evidences {
		evidence, eErr := e.toDomain(id)
		if eErr != nil {
			return nil, eErr
		}
		snapshot.Evidences = append(snapshot.Evidences, evidence)
	}
	for _, l := range d.ActionLog {
		actionType, lErr := order.ParseActionType(l.ActionType)
		if lErr != nil {
			return nil, lErr
		}
		snapshot.ActionLog = append(snapshot.ActionLog, order.RestoreActionLogEntry(
			l.Timestamp, l.Action, actionType, l.PerformedBy, l.PreviousValue, l.NewValue))
	}

	return order.RestoreOrder(snapshot)
}

func (r requirementDocument) toDomain() (order.AssetRequirement, error) {
	assetType, err := order.ParseAssetType(r.AssetType)
	if err != nil {
		return order.AssetRequirement{}, err
	}
	customerPrice, err := kernel.MoneyFromString(r.CustomerPrice)
	if err != nil {
		return order.AssetRequirement{}, err
	}
	contractorPrice, err := kernel.MoneyFromString(r.ContractorPrice)
	if err != nil {
		return order.AssetRequirement{}, err
	}
	return order.NewAssetRequirement(assetType, r.ContractorID, r.PlannedUnits, customerPrice, contractorPrice)
}

func (b bidDocument) toDomain(orderID kernel.UUID) (order.Bid, error) {
	id, err := kernel.UUIDFromString(b.ID)
	if err != nil {
		return order.Bid{}, err
	}
	assetType, err := order.ParseAssetType(b.AssetType)
	if err != nil {
		return order.Bid{}, err
	}
	status, err := order.ParseBidStatus(b.Status)
	if err != nil {
		return order.Bid{}, err
	}
	price, err := kernel.MoneyFromString(b.ProposedPrice)
	if err != nil {
		return order.Bid{}, err
	}
	return order.RestoreBid(order.BidSnapshot{
		ID:            id,
		OrderID:       orderID,
		ContractorID:  b.ContractorID,
		DriverName:    b.DriverName,
		AssetType:     assetType,
		ProposedPrice: price,
		ETA:           b.ETA,
		Comment:       b.Comment,
		Status:        status,
		CreatedAt:     b.CreatedAt,
		DecidedAt:     b.DecidedAt,
		DecidedBy:     b.DecidedBy,
	})
}

func (a assignmentDocument) toDomain(orderID kernel.UUID) (order.DriverAssignment, error) {
	id, err := kernel.UUIDFromString(a.ID)
	if err != nil {
		return order.DriverAssignment{}, err
	}
	var bidID *kernel.UUID
	if a.BidID != "" {
		bID, bErr := kernel.UUIDFromString(a.BidID)
		if bErr != nil {
			return order.DriverAssignment{}, bErr
		}
		bidID = &bID
	}
	assetType, err := order.ParseAssetType(a.AssetType)
	if err != nil {
		return order.DriverAssignment{}, err
	}
	status, err := order.ParseAssignmentStatus(a.Status)
	if err != nil {
		return order.DriverAssignment{}, err
	}
	price, err := kernel.MoneyFromString(a.AssignedPrice)
	if err != nil {
		return order.DriverAssignment{}, err
	}
	return order.RestoreDriverAssignment(order.AssignmentSnapshot{
		ID:             id,
		OrderID:        orderID,
		BidID:          bidID,
		DriverName:     a.DriverName,
		ContractorID:   a.ContractorID,
		AssetType:      assetType,
		AssignedPrice:  price,
		Status:         status,
		AssignedBy:     a.AssignedBy,
		AssignedAt:     a.AssignedAt,
		ArrivedAt:      a.ArrivedAt,
		StartedAt:      a.StartedAt,
		CompletedAt:    a.CompletedAt,
		ShiftStartTime: a.ShiftStartTime,
		ShiftEndTime:   a.ShiftEndTime,
	})
}

func (e evidenceDocument) toDomain(orderID kernel.UUID) (order.TripEvidence, error) {
	id, err := kernel.UUIDFromString(e.ID)
	if err != nil {
		return order.TripEvidence{}, err
	}
	photos := make([]order.Photo, 0, len(e.Photos))
	for _, p := range e.Photos {
		photo, pErr := order.NewPhoto(p.URL, p.TakenAt)
		if pErr != nil {
			return order.TripEvidence{}, pErr
		}
		photos = append(photos, photo)
	}
	var coordinates *kernel.GeoPoint
	if e.Coordinates != nil {
		point, pErr := kernel.NewGeoPoint(e.Coordinates.Lat, e.Coordinates.Lon)
		if pErr != nil {
			return order.TripEvidence{}, pErr
		}
		coordinates = &point
	}
	return order.RestoreTripEvidence(order.EvidenceSnapshot{
		ID:              id,
		OrderID:         orderID,
		DriverName:      e.DriverName,
		TripNumber:      e.TripNumber,
		Timestamp:       e.Timestamp,
		Coordinates:     coordinates,
		Photos:          photos,
		Confirmed:       e.Confirmed,
		ConfirmedAt:     e.ConfirmedAt,
		ConfirmedBy:     e.ConfirmedBy,
		RejectionReason: e.RejectionReason,
		RejectedAt:      e.RejectedAt,
		RejectedBy:      e.RejectedBy,
	})
}
