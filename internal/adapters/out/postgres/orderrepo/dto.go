// Package orderrepo maps the Order aggregate onto relational tables: one row
// per order plus child tables for requirements, bids, assignments, trip
// evidence and the action log. Log entries are also copied into the outbox
// table in the same transaction.
package orderrepo

import (
	"encoding/json"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OrderDTO is the orders table. Version drives optimistic concurrency and
// ActualTrips is denormalized for the list reader.
type OrderDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number       string    `gorm:"type:varchar(32);not null;uniqueIndex"`
	CustomerID   string    `gorm:"type:varchar(64);not null;index"`
	Address      string    `gorm:"type:text;not null"`
	WorkDate     time.Time `gorm:"not null;index"`
	IsBirzhaOpen bool      `gorm:"not null;default:false"`
	Status       int       `gorm:"type:smallint;not null;index"`
	PlannedTrips int       `gorm:"not null"`
	ActualTrips  int       `gorm:"not null"`
	IsFrozen     bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
	Version      int64     `gorm:"not null"`

	Requirements []RequirementDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Bids         []BidDTO         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Assignments  []AssignmentDTO  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Evidences    []EvidenceDTO    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ActionLog    []ActionLogDTO   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type RequirementDTO struct {
	OrderID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position        int       `gorm:"primaryKey"`
	AssetType       string    `gorm:"type:varchar(16);not null"`
	ContractorID    string    `gorm:"type:varchar(64);not null;default:''"`
	PlannedUnits    int       `gorm:"not null"`
	CustomerPrice   string    `gorm:"type:numeric(14,2);not null"`
	ContractorPrice string    `gorm:"type:numeric(14,2);not null"`
}

func (RequirementDTO) TableName() string {
	return "order_requirements"
}

type BidDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	Seq           int        `gorm:"not null"`
	ContractorID  string     `gorm:"type:varchar(64);not null;index"`
	DriverName    string     `gorm:"type:varchar(255)"`
	AssetType     string     `gorm:"type:varchar(16);not null"`
	ProposedPrice string     `gorm:"type:numeric(14,2);not null"`
	ETA           *time.Time ``
	Comment       string     `gorm:"type:text"`
	Status        string     `gorm:"type:varchar(16);not null"`
	CreatedAt     time.Time  `gorm:"not null"`
	DecidedAt     *time.Time ``
	DecidedBy     string     `gorm:"type:varchar(255)"`
}

func (BidDTO) TableName() string {
	return "bids"
}

type AssignmentDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	Seq            int        `gorm:"not null"`
	BidID          *uuid.UUID `gorm:"type:uuid"`
	DriverName     string     `gorm:"type:varchar(255);index"`
	ContractorID   string     `gorm:"type:varchar(64);not null;index"`
	AssetType      string     `gorm:"type:varchar(16);not null"`
	AssignedPrice  string     `gorm:"type:numeric(14,2);not null"`
	Status         string     `gorm:"type:varchar(16);not null"`
	AssignedBy     string     `gorm:"type:varchar(255)"`
	AssignedAt     time.Time  `gorm:"not null"`
	ArrivedAt      *time.Time ``
	StartedAt      *time.Time ``
	CompletedAt    *time.Time ``
	ShiftStartTime *time.Time ``
	ShiftEndTime   *time.Time ``
}

func (AssignmentDTO) TableName() string {
	return "driver_assignments"
}

// PhotoDTO is one element of the evidence photos JSON column.
type PhotoDTO struct {
	URL     string    `json:"url"`
	TakenAt time.Time `json:"takenAt"`
}

// GeoPointDTO is the evidence coordinates JSON column.
type GeoPointDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type EvidenceDTO struct {
	ID              uuid.UUID                    `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID                    `gorm:"type:uuid;not null;index"`
	Seq             int                          `gorm:"not null"`
	DriverName      string                       `gorm:"type:varchar(255);not null"`
	TripNumber      int                          `gorm:"not null"`
	Timestamp       time.Time                    `gorm:"not null"`
	Coordinates     datatypes.JSON               `gorm:"type:jsonb"`
	Photos          datatypes.JSONSlice[PhotoDTO] `gorm:"type:jsonb;not null"`
	Confirmed       bool                         `gorm:"not null;default:false"`
	ConfirmedAt     *time.Time                   ``
	ConfirmedBy     string                       `gorm:"type:varchar(255)"`
	RejectionReason string                       `gorm:"type:text"`
	RejectedAt      *time.Time                   ``
	RejectedBy      string                       `gorm:"type:varchar(255)"`
}

func (EvidenceDTO) TableName() string {
	return "trip_evidences"
}

type ActionLogDTO struct {
	OrderID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq           int       `gorm:"primaryKey"`
	Timestamp     time.Time `gorm:"not null"`
	Action        string    `gorm:"type:text;not null"`
	ActionType    string    `gorm:"type:varchar(32);not null"`
	PerformedBy   string    `gorm:"type:varchar(255);not null"`
	PreviousValue string    `gorm:"type:text"`
	NewValue      string    `gorm:"type:text"`
}

func (ActionLogDTO) TableName() string {
	return "order_action_log"
}

// fromDomain maps the aggregate. Version is left to the repository.
func fromDomain(o *order.Order) (OrderDTO, error) {
	orderID := o.ID().Bytes()
	dto := OrderDTO{
		ID:           orderID,
		Number:       o.Number(),
		CustomerID:   o.CustomerID(),
		Address:      o.Address(),
		WorkDate:     o.WorkDate(),
		IsBirzhaOpen: o.IsBirzhaOpen(),
		Status:       int(o.Status()),
		PlannedTrips: o.PlannedTrips(),
		ActualTrips:  o.ActualTrips(),
		IsFrozen:     o.IsFrozen(),
		CreatedAt:    o.CreatedAt(),
		UpdatedAt:    o.UpdatedAt(),
	}

	for i, r := range o.Requirements() {
		dto.Requirements = append(dto.Requirements, RequirementDTO{
			OrderID:         orderID,
			Position:        i,
			AssetType:       r.AssetType().String(),
			ContractorID:    r.ContractorID(),
			PlannedUnits:    r.PlannedUnits(),
			CustomerPrice:   r.CustomerPrice().String(),
			ContractorPrice: r.ContractorPrice().String(),
		})
	}

	for i, b := range o.Bids() {
		dto.Bids = append(dto.Bids, BidDTO{
			ID:            b.ID().Bytes(),
			OrderID:       orderID,
			Seq:           i,
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

	for i, a := range o.Assignments() {
		var bidID *uuid.UUID
		if id := a.BidID(); id != nil {
			raw := id.Bytes()
			bidID = &raw
		}
		dto.Assignments = append(dto.Assignments, AssignmentDTO{
			ID:             a.ID().Bytes(),
			OrderID:        orderID,
			Seq:            i,
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

	for i, e := range o.Evidences() {
		evidence, err := evidenceFromDomain(orderID, i, e)
		if err != nil {
			return OrderDTO{}, err
		}
		dto.Evidences = append(dto.Evidences, evidence)
	}

	for i, entry := range o.ActionLog() {
		dto.ActionLog = append(dto.ActionLog, actionFromDomain(orderID, i, entry))
	}

	return dto, nil
}

func evidenceFromDomain(orderID uuid.UUID, seq int, e order.TripEvidence) (EvidenceDTO, error) {
	photos := make(datatypes.JSONSlice[PhotoDTO], 0, len(e.Photos()))
	for _, p := range e.Photos() {
		photos = append(photos, PhotoDTO{URL: p.URL(), TakenAt: p.TakenAt()})
	}

	var coordinates datatypes.JSON
	if c := e.Coordinates(); c != nil {
		raw, err := json.Marshal(GeoPointDTO{Lat: c.Lat(), Lon: c.Lon()})
		if err != nil {
			return EvidenceDTO{}, fmt.Errorf("marshal coordinates: %w", err)
		}
		coordinates = raw
	}

	return EvidenceDTO{
		ID:              e.ID().Bytes(),
		OrderID:         orderID,
		Seq:             seq,
		DriverName:      e.DriverName(),
		TripNumber:      e.TripNumber(),
		Timestamp:       e.Timestamp(),
		Coordinates:     coordinates,
		Photos:          photos,
		Confirmed:       e.Confirmed(),
		ConfirmedAt:     e.ConfirmedAt(),
		ConfirmedBy:     e.ConfirmedBy(),
		RejectionReason: e.RejectionReason(),
		RejectedAt:      e.RejectedAt(),
		RejectedBy:      e.RejectedBy(),
	}, nil
}

func actionFromDomain(orderID uuid.UUID, seq int, entry order.ActionLogEntry) ActionLogDTO {
	return ActionLogDTO{
		OrderID:       orderID,
		Seq:           seq,
		Timestamp:     entry.Timestamp(),
		Action:        entry.Action(),
		ActionType:    entry.ActionType().String(),
		PerformedBy:   entry.PerformedBy(),
		PreviousValue: entry.PreviousValue(),
		NewValue:      entry.NewValue(),
	}
}

// toDomain rebuilds the aggregate. Children must already be sorted by Seq.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	snapshot := order.Snapshot{
		ID:           id,
		Number:       dto.Number,
		CustomerID:   dto.CustomerID,
		Address:      dto.Address,
		WorkDate:     dto.WorkDate,
		IsBirzhaOpen: dto.IsBirzhaOpen,
		Status:       order.Status(dto.Status),
		PlannedTrips: dto.PlannedTrips,
		IsFrozen:     dto.IsFrozen,
		CreatedAt:    dto.CreatedAt,
		UpdatedAt:    dto.UpdatedAt,
		Version:      dto.Version,
	}

	for _, r := range dto.Requirements {
		requirement, rErr := requirementToDomain(r)
		if rErr != nil {
			return nil, rErr
		}
		snapshot.Requirements = append(snapshot.Requirements, requirement)
	}
	for _, b := range dto.Bids {
		bid, bErr := bidToDomain(id, b)
		if bErr != nil {
			return nil, bErr
		}
		snapshot.Bids = append(snapshot.Bids, bid)
	}
	for _, a := range dto.Assignments {
		assignment, aErr := assignmentToDomain(id, a)
		if aErr != nil {
			return nil, aErr
		}
		snapshot.Assignments = append(snapshot.Assignments, assignment)
	}
	for _, e := range dto.Evidences {
		evidence, eErr := evidenceToDomain(id, e)
		if eErr != nil {
			return nil, eErr
		}
		snapshot.Evidences = append(snapshot.Evidences, evidence)
	}
	for _, l := range dto.ActionLog {
		entry, lErr := actionToDomain(l)
		if lErr != nil {
			return nil, lErr
		}
		snapshot.ActionLog = append(snapshot.ActionLog, entry)
	}

	return order.RestoreOrder(snapshot)
}

func requirementToDomain(dto RequirementDTO) (order.AssetRequirement, error) {
	assetType, err := order.ParseAssetType(dto.AssetType)
	if err != nil {
		return order.AssetRequirement{}, err
	}
	customerPrice, err := kernel.MoneyFromString(dto.CustomerPrice)
	if err != nil {
		return order.AssetRequirement{}, err
	}
	contractorPrice, err := kernel.MoneyFromString(dto.ContractorPrice)
	if err != nil {
		return order.AssetRequirement{}, err
	}
	return order.NewAssetRequirement(assetType, dto.ContractorID, dto.PlannedUnits, customerPrice, contractorPrice)
}

func bidToDomain(orderID kernel.UUID, dto BidDTO) (order.Bid, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.Bid{}, err
	}
	assetType, err := order.ParseAssetType(dto.AssetType)
	if err != nil {
		return order.Bid{}, err
	}
	status, err := order.ParseBidStatus(dto.Status)
	if err != nil {
		return order.Bid{}, err
	}
	price, err := kernel.MoneyFromString(dto.ProposedPrice)
	if err != nil {
		return order.Bid{}, err
	}

	return order.RestoreBid(order.BidSnapshot{
		ID:            id,
		OrderID:       orderID,
		ContractorID:  dto.ContractorID,
		DriverName:    dto.DriverName,
		AssetType:     assetType,
		ProposedPrice: price,
		ETA:           dto.ETA,
		Comment:       dto.Comment,
		Status:        status,
		CreatedAt:     dto.CreatedAt,
		DecidedAt:     dto.DecidedAt,
		DecidedBy:     dto.DecidedBy,
	})
}

func assignmentToDomain(orderID kernel.UUID, dto AssignmentDTO) (order.DriverAssignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.DriverAssignment{}, err
	}

	var bidID *kernel.UUID
	if dto.BidID != nil {
		bID, bErr := kernel.UUIDFromBytes((*dto.BidID)[:])
		if bErr != nil {
			return order.DriverAssignment{}, bErr
		}
		bidID = &bID
	}

	assetType, err := order.ParseAssetType(dto.AssetType)
	if err != nil {
		return order.DriverAssignment{}, err
	}
	status, err := order.ParseAssignmentStatus(dto.Status)
	if err != nil {
		return order.DriverAssignment{}, err
	}
	price, err := kernel.MoneyFromString(dto.AssignedPrice)
	if err != nil {
		return order.DriverAssignment{}, err
	}

	return order.RestoreDriverAssignment(order.AssignmentSnapshot{
		ID:             id,
		OrderID:        orderID,
		BidID:          bidID,
		DriverName:     dto.DriverName,
		ContractorID:   dto.ContractorID,
		AssetType:      assetType,
		AssignedPrice:  price,
		Status:         status,
		AssignedBy:     dto.AssignedBy,
		AssignedAt:     dto.AssignedAt,
		ArrivedAt:      dto.ArrivedAt,
		StartedAt:      dto.StartedAt,
		CompletedAt:    dto.CompletedAt,
		ShiftStartTime: dto.ShiftStartTime,
		ShiftEndTime:   dto.ShiftEndTime,
	})
}

func evidenceToDomain(orderID kernel.UUID, dto EvidenceDTO) (order.TripEvidence, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.TripEvidence{}, err
	}

	photos := make([]order.Photo, 0, len(dto.Photos))
	for _, p := range dto.Photos {
		photo, pErr := order.NewPhoto(p.URL, p.TakenAt)
		if pErr != nil {
			return order.TripEvidence{}, pErr
		}
		photos = append(photos, photo)
	}

	var coordinates *kernel.GeoPoint
	if len(dto.Coordinates) > 0 && string(dto.Coordinates) != "null" {
		var raw GeoPointDTO
		if err = json.Unmarshal(dto.Coordinates, &raw); err != nil {
			return order.TripEvidence{}, fmt.Errorf("unmarshal coordinates: %w", err)
		}
		point, pErr := kernel.NewGeoPoint(raw.Lat, raw.Lon)
		if pErr != nil {
			return order.TripEvidence{}, pErr
		}
		coordinates = &point
	}

	return order.RestoreTripEvidence(order.EvidenceSnapshot{
		ID:              id,
		OrderID:         orderID,
		DriverName:      dto.DriverName,
		TripNumber:      dto.TripNumber,
		Timestamp:       dto.Timestamp,
		Coordinates:     coordinates,
		Photos:          photos,
		Confirmed:       dto.Confirmed,
		ConfirmedAt:     dto.ConfirmedAt,
		ConfirmedBy:     dto.ConfirmedBy,
		RejectionReason: dto.RejectionReason,
		RejectedAt:      dto.RejectedAt,
		RejectedBy:      dto.RejectedBy,
	})
}

func actionToDomain(dto ActionLogDTO) (order.ActionLogEntry, error) {
	actionType, err := order.ParseActionType(dto.ActionType)
	if err != nil {
		return order.ActionLogEntry{}, err
	}
	return order.RestoreActionLogEntry(
		dto.Timestamp, dto.Action, actionType, dto.PerformedBy, dto.PreviousValue, dto.NewValue,
	), nil
}

// AutoMigrate creates or updates every table the repository and the outbox use.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&OrderDTO{},
		&RequirementDTO{},
		&BidDTO{},
		&AssignmentDTO{},
		&EvidenceDTO{},
		&ActionLogDTO{},
		&OutboxDTO{},
	)
}
