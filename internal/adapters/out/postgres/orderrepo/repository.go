package orderrepo

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker receives every aggregate written through the repository
// together with the version it was stored at.
type aggregateTracker interface {
	TrackAggregate(aggregate *order.Order, version int64)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a new order with its children at version 1.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	dto.Version = 1

	db := r.db.WithContext(ctx)
	if err = db.Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewValueIsInvalidErrorWithCause("order", fmt.Errorf("order %s already exists", aggregate.ID()))
		}
		return err
	}
	if err = r.insertOutbox(db, aggregate); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate, dto.Version)
	return nil
}

// Update writes the order only if the stored version still matches the one it
// was loaded at.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	dto.Version = aggregate.Version() + 1

	db := r.db.WithContext(ctx)
	result := db.Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Updates(map[string]any{
			"customer_id":    dto.CustomerID,
			"address":        dto.Address,
			"work_date":      dto.WorkDate,
			"is_birzha_open": dto.IsBirzhaOpen,
			"status":         dto.Status,
			"planned_trips":  dto.PlannedTrips,
			"actual_trips":   dto.ActualTrips,
			"is_frozen":      dto.IsFrozen,
			"updated_at":     dto.UpdatedAt,
			"version":        dto.Version,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missingOrStale(db, aggregate)
	}

	if err = r.saveChildren(db, dto, aggregate); err != nil {
		return err
	}
	if err = r.insertOutbox(db, aggregate); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate, dto.Version)
	return nil
}

func (r *GormOrderRepository) missingOrStale(db *gorm.DB, aggregate *order.Order) error {
	var stored int64
	err := db.Model(&OrderDTO{}).Select("version").Where("id = ?", aggregate.ID().Bytes()).Scan(&stored).Error
	if err != nil {
		return err
	}
	if stored == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}
	return errs.NewVersionIsInvalidError("order",
		fmt.Errorf("loaded at %d, stored at %d", aggregate.Version(), stored))
}

// saveChildren rewrites requirements, upserts the mutable children and
// appends the log entries the aggregate gained since it was loaded.
func (r *GormOrderRepository) saveChildren(db *gorm.DB, dto OrderDTO, aggregate *order.Order) error {
	if err := db.Where("order_id = ?", dto.ID).Delete(&RequirementDTO{}).Error; err != nil {
		return err
	}
	if len(dto.Requirements) > 0 {
		if err := db.Create(&dto.Requirements).Error; err != nil {
			return err
		}
	}

	upsert := db.Clauses(clause.OnConflict{UpdateAll: true})
	if len(dto.Bids) > 0 {
		if err := upsert.Create(&dto.Bids).Error; err != nil {
			return err
		}
	}
	if len(dto.Assignments) > 0 {
		if err := upsert.Create(&dto.Assignments).Error; err != nil {
			return err
		}
	}
	if len(dto.Evidences) > 0 {
		if err := upsert.Create(&dto.Evidences).Error; err != nil {
			return err
		}
	}

	fresh := len(aggregate.UncommittedActions())
	if fresh == 0 {
		return nil
	}
	entries := dto.ActionLog[len(dto.ActionLog)-fresh:]
	return db.Create(&entries).Error
}

func (r *GormOrderRepository) insertOutbox(db *gorm.DB, aggregate *order.Order) error {
	events := ports.PendingEvents(aggregate)
	if len(events) == 0 {
		return nil
	}
	rows := make([]OutboxDTO, 0, len(events))
	for _, e := range events {
		rows = append(rows, outboxFromEvent(e))
	}
	return db.Create(&rows).Error
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := withChildren(r.db.WithContext(ctx)).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetForUpdate takes a row lock on the order before loading it. The lock is
// held until the surrounding transaction ends.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var locked OrderDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&locked, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return r.Get(ctx, id)
}

func (r *GormOrderRepository) List(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	query := withChildren(r.db.WithContext(ctx))

	if len(filter.Statuses) > 0 {
		statuses := make([]int, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, int(s))
		}
		query = query.Where("status IN ?", statuses)
	}
	if filter.ExcludeTerminal {
		query = query.Where("status NOT IN ?", []int{int(order.Completed), int(order.Cancelled)})
	}
	if filter.CustomerID != "" {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.ContractorID != "" || filter.DriverName != "" {
		query = query.Where("EXISTS (?)", assignmentsOf(r.db.WithContext(ctx), filter))
	}
	if filter.WorkDateFrom != nil {
		query = query.Where("work_date >= ?", *filter.WorkDateFrom)
	}
	if filter.WorkDateTo != nil {
		query = query.Where("work_date <= ?", *filter.WorkDateTo)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var dtos []OrderDTO
	if err := query.Order("work_date DESC").Order("number").Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// assignmentsOf selects the assignments of the filtered contractor or driver
// that belong to the outer order row.
func assignmentsOf(db *gorm.DB, filter ports.OrderFilter) *gorm.DB {
	sub := db.Model(&AssignmentDTO{}).
		Select("1").
		Where("driver_assignments.order_id = orders.id")
	if filter.ContractorID != "" {
		sub = sub.Where("driver_assignments.contractor_id = ?", filter.ContractorID)
	}
	if filter.DriverName != "" {
		sub = sub.Where("driver_assignments.driver_name = ?", filter.DriverName)
	}
	return sub
}

func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Requirements", orderedBy("position")).
		Preload("Bids", orderedBy("seq")).
		Preload("Assignments", orderedBy("seq")).
		Preload("Evidences", orderedBy("seq")).
		Preload("ActionLog", orderedBy("seq"))
}

func orderedBy(column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(column)
	}
}
