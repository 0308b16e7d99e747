package ports

import "context"

// CompanyKind distinguishes customers from contractors in the directory.
type CompanyKind string

const (
	CompanyCustomer   CompanyKind = "customer"
	CompanyContractor CompanyKind = "contractor"
)

// Company is a directory record used to label ids in read models.
type Company struct {
	ID     string
	Name   string
	Kind   CompanyKind
	Rating float64
}

// Directory resolves customer and contractor ids. It is owned by another
// system; the engine only reads it.
type Directory interface {
	// Get returns errs.ObjectNotFoundError for unknown ids.
	Get(ctx context.Context, id string) (Company, error)

	// Lookup resolves many ids at once. Unknown ids are absent from the result.
	Lookup(ctx context.Context, ids []string) (map[string]Company, error)
}
