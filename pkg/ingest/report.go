// Package ingest writes candidate records into the two resume indices and
// the profile store, with per-record partial-failure reporting.
package ingest

// RecordStatus classifies the outcome of one record's upsert.
type RecordStatus string

const (
	// Upserted means both index writes succeeded.
	Upserted RecordStatus = "upserted"

	// PartiallyUpserted means one index write succeeded and the other
	// failed; the caller may retry just the failed half.
	PartiallyUpserted RecordStatus = "partially_upserted"

	// Failed means both index writes failed.
	Failed RecordStatus = "failed"
)

// RecordReport is the outcome for a single candidate record.
type RecordReport struct {
	EmployeeID string       `json:"employee_id"`
	Status     RecordStatus `json:"status"`

	// FailedIndex names the index whose write failed, for partial results.
	FailedIndex string `json:"failed_index,omitempty"`

	Error string `json:"error,omitempty"`
}

// UpsertReport aggregates a batch upsert. The batch never aborts on a bad
// record; counts always say how many succeeded and failed.
type UpsertReport struct {
	Records   []RecordReport `json:"records"`
	Upserted  int            `json:"upserted"`
	Partial   int            `json:"partial"`
	Failed    int            `json:"failed"`
}

func (r *UpsertReport) add(rr RecordReport) {
	r.Records = append(r.Records, rr)
	switch rr.Status {
	case Upserted:
		r.Upserted++
	case PartiallyUpserted:
		r.Partial++
	case Failed:
		r.Failed++
	}
}
