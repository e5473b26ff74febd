package domain

type RefState int

const (
	// RefInvalid marks a structurally invalid reference (missing or zero id).
	RefInvalid RefState = iota
	// RefUnresolved marks a well-formed id that does not resolve to a row,
	// or an optional reference that is absent.
	RefUnresolved
	// RefResolved marks an id that resolves to an existing row.
	RefResolved
)

// Ref is a reference to a category or company as seen in one catalog snapshot.
type Ref struct {
	id    uint64
	state RefState
}

func ResolvedRef(id uint64) Ref {
	return Ref{id: id, state: RefResolved}
}

func UnresolvedRef(id uint64) Ref {
	return Ref{id: id, state: RefUnresolved}
}

func InvalidRef() Ref {
	return Ref{state: RefInvalid}
}

func (r Ref) State() RefState {
	return r.state
}

// Resolved returns the id and true only for resolved references.
func (r Ref) Resolved() (uint64, bool) {
	if r.state != RefResolved {
		return 0, false
	}
	return r.id, true
}

// CatalogItem is a product as read in a catalog snapshot, with its references
// classified and its per-reviewer ratings attached.
type CatalogItem struct {
	Product       Product
	Category      Ref
	Company       Ref
	ReviewRatings []float64
}

type Recommendation struct {
	Product Product `json:"product"`
	Score   float64 `json:"score"`
}
