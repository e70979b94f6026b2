package providers

import "fmt"

// ValidationError marks an adapter result that violates the record
// contract. It is a programming-error-class fault, distinct from a
// provider-reported error, and must never reach persistence.
type ValidationError struct {
	Adapter string
	Detail  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Adapter, e.Detail)
}

// validateResult checks every record of a successful result: non-empty
// source, source-local id and name, and a non-nil categories list.
func validateResult(adapter string, result Result) error {
	if !result.OK {
		return nil
	}
	if result.Meta.Provider == "" {
		return &ValidationError{Adapter: adapter, Detail: "ok=true but meta.provider missing"}
	}
	for i, rec := range result.Records {
		if rec.Source == "" || rec.SourceID == "" {
			return &ValidationError{Adapter: adapter, Detail: fmt.Sprintf("record[%d] missing source/sourceId", i)}
		}
		if rec.Name == "" {
			return &ValidationError{Adapter: adapter, Detail: fmt.Sprintf("record[%d] missing name", i)}
		}
		if rec.Categories == nil {
			return &ValidationError{Adapter: adapter, Detail: fmt.Sprintf("record[%d] categories must be a list", i)}
		}
	}
	return nil
}
