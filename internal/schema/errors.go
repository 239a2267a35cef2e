package schema

import "fmt"

// SchemaError reports that the columns of Table could not be read, either
// because the catalog query failed or because the table does not exist.
// Err keeps the underlying *errs.Error, so errs.IsNotFound and friends
// see through it.
type SchemaError struct {
	Table string
	Err   error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: read columns of %q: %v", e.Table, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
