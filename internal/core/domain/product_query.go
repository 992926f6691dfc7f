package domain

type SortField string

const (
	SortByName  SortField = "name"
	SortByPrice SortField = "price"
	SortByStock SortField = "stock"
)

func (f SortField) Valid() bool {
	return f == SortByName || f == SortByPrice || f == SortByStock
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ProductQuery is the admin product list state: a search term, a category
// filter and a sort.
type ProductQuery struct {
	Search   string    `json:"search"`
	Category string    `json:"category"`
	Field    SortField `json:"field"`
	Order    SortOrder `json:"order"`
}

// Normalized fills in the default sort, name ascending.
func (q ProductQuery) Normalized() ProductQuery {
	if !q.Field.Valid() {
		q.Field = SortByName
	}
	if q.Order != SortDesc {
		q.Order = SortAsc
	}
	return q
}

// Toggle selects field: the same field flips the order, another field sorts
// ascending by it.
func (q ProductQuery) Toggle(field SortField) ProductQuery {
	q = q.Normalized()
	if q.Field == field {
		if q.Order == SortAsc {
			q.Order = SortDesc
		} else {
			q.Order = SortAsc
		}
		return q
	}
	q.Field = field
	q.Order = SortAsc
	return q
}
