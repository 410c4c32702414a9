package models

import "fmt"

// RefKind tells which id space a product id belongs to.
type RefKind string

const (
	// RefAuthoritative ids are assigned by the backing store.
	RefAuthoritative RefKind = "authoritative"
	// RefLocal ids are generated on the client while the store was unreachable.
	RefLocal RefKind = "local"
)

// ProductRef identifies a product in either id space.
type ProductRef struct {
	Kind RefKind `json:"kind"`
	ID   string  `json:"id"`
}

func AuthoritativeRef(id string) ProductRef { return ProductRef{Kind: RefAuthoritative, ID: id} }

func LocalRef(id string) ProductRef { return ProductRef{Kind: RefLocal, ID: id} }

func (r ProductRef) IsAuthoritative() bool { return r.Kind == RefAuthoritative }

func (r ProductRef) IsZero() bool { return r.ID == "" }

// Matches reports whether r and o name the same logical product. Ids are
// compared across both id spaces.
func (r ProductRef) Matches(o ProductRef) bool {
	if r.ID == "" || o.ID == "" {
		return false
	}
	switch r.Kind {
	case RefAuthoritative, RefLocal:
		switch o.Kind {
		case RefAuthoritative, RefLocal:
			return r.ID == o.ID
		}
	}
	return false
}

func (r ProductRef) String() string {
	return fmt.Sprintf("%s:%s", r.Kind, r.ID)
}
