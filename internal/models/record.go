package models

// Record is one normalized inventory item: the opaque storage identity plus
// the complete display-shaped field map (every canonical field present,
// values trimmed and uppercased).
type Record struct {
	ID     int64             `json:"id"`
	Fields map[string]string `json:"fields"`
}

// Field returns a display field value, or the empty string if absent.
func (r Record) Field(name string) string {
	return r.Fields[name]
}

// CreateRecordRequest carries the display-shaped fields of a new record.
type CreateRecordRequest struct {
	Fields map[string]string `json:"fields"`
}

// UpdateRecordRequest carries a partial display-shaped record; only the
// supplied fields are changed in storage.
type UpdateRecordRequest struct {
	Fields map[string]string `json:"fields"`
}
