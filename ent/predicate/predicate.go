// Code generated by ent, DO NOT EDIT.

package predicate

import (
	"entgo.io/ent/dialect/sql"
)

// RequestEvent is the predicate function for requestevent builders.
type RequestEvent func(*sql.Selector)
