package dto

import "encoding/json"

// Optional distinguishes three states of a JSON field in a patch request:
// absent (no change), explicit null, and a concrete value. Plain pointers
// collapse the first two, which breaks "set assignee to null" vs "leave
// assignee untouched".
type Optional[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON is only invoked when the field is present in the payload,
// so Set records presence and Value stays nil for an explicit null.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}
