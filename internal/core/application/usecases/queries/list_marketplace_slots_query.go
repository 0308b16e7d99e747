package queries

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/guard"
)

var ErrListMarketplaceSlotsQueryIsNotConstructed = errors.New(
	"ListMarketplaceSlotsQuery must be created via NewListMarketplaceSlotsQuery constructor",
)

// ListMarketplaceSlotsQuery asks for the slots a contractor may take. An
// empty contractor id returns the public board.
type ListMarketplaceSlotsQuery struct {
	contractorID string

	guard guard.ConstructorGuard
}

func NewListMarketplaceSlotsQuery(contractorID string) ListMarketplaceSlotsQuery {
	return ListMarketplaceSlotsQuery{contractorID: contractorID, guard: guard.NewConstructorGuard()}
}

func (q ListMarketplaceSlotsQuery) Validate() error {
	return q.guard.Validate(ErrListMarketplaceSlotsQueryIsNotConstructed)
}

func (q ListMarketplaceSlotsQuery) ContractorID() string {
	return q.contractorID
}

// MarketplaceSlotView is a board slot labelled with the customer name.
type MarketplaceSlotView struct {
	services.MarketplaceSlot
	CustomerID   string
	CustomerName string
}

type ListMarketplaceSlotsQueryHandler struct {
	orders    ports.OrderRepository
	directory ports.Directory
	board     services.MarketplaceBoard
}

func NewListMarketplaceSlotsQueryHandler(
	orders ports.OrderRepository,
	directory ports.Directory,
) ListMarketplaceSlotsQueryHandler {
	return ListMarketplaceSlotsQueryHandler{
		orders:    orders,
		directory: directory,
		board:     services.NewMarketplaceBoard(),
	}
}

func (h ListMarketplaceSlotsQueryHandler) Handle(
	ctx context.Context,
	query ListMarketplaceSlotsQuery,
) ([]MarketplaceSlotView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.orders.List(ctx, ports.OrderFilter{ExcludeTerminal: true})
	if err != nil {
		return nil, err
	}

	customers := make(map[string]string, len(orders))
	for _, o := range orders {
		customers[o.ID().String()] = o.CustomerID()
	}

	slots := h.board.Slots(orders, query.ContractorID())
	names, err := lookupNames(ctx, h.directory, customers)
	if err != nil {
		return nil, err
	}

	views := make([]MarketplaceSlotView, 0, len(slots))
	for _, slot := range slots {
		customerID := customers[slot.OrderID.String()]
		views = append(views, MarketplaceSlotView{
			MarketplaceSlot: slot,
			CustomerID:      customerID,
			CustomerName:    names[customerID],
		})
	}
	return views, nil
}

// lookupNames resolves the distinct values of ids through the directory. A
// nil directory or unknown ids simply leave names empty.
func lookupNames(ctx context.Context, directory ports.Directory, ids map[string]string) (map[string]string, error) {
	names := make(map[string]string)
	if directory == nil || len(ids) == 0 {
		return names, nil
	}

	seen := make(map[string]struct{}, len(ids))
	distinct := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}

	companies, err := directory.Lookup(ctx, distinct)
	if err != nil {
		return nil, err
	}
	for id, c := range companies {
		names[id] = c.Name
	}
	return names, nil
}
