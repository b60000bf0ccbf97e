package protocolmodels

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jiaming2012/protocol-backup/src/unixtime"
)

type RecordDTO struct {
	RecordID int64   `json:"record_id"`
	Datetime string  `json:"datetime"`
	Value    float64 `json:"value"`
	DValue   float64 `json:"d_value"`
}

// UnmarshalJSON accepts only objects carrying exactly the four record fields.
func (r *RecordDTO) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: record is not an object: %v", ErrInvalidRecordShape, err)
	}

	if len(fields) != len(RecordFields) {
		return fmt.Errorf("%w: expected fields %v, found %d fields", ErrInvalidRecordShape, RecordFields, len(fields))
	}

	targets := map[string]any{
		FieldRecordID: &r.RecordID,
		FieldDatetime: &r.Datetime,
		FieldValue:    &r.Value,
		FieldDValue:   &r.DValue,
	}

	for _, name := range RecordFields {
		raw, found := fields[name]
		if !found {
			return fmt.Errorf("%w: missing field %q", ErrInvalidRecordShape, name)
		}

		if err := json.Unmarshal(raw, targets[name]); err != nil {
			return fmt.Errorf("%w: field %q: %v", ErrInvalidRecordShape, name, err)
		}
	}

	return nil
}

func (r RecordDTO) ToModel(loc *time.Location) (Record, error) {
	t, err := unixtime.ParseISO(r.Datetime, loc)
	if err != nil {
		return Record{}, fmt.Errorf("record %d: %w", r.RecordID, err)
	}

	return Record{
		RecordID: r.RecordID,
		Datetime: t,
		Value:    r.Value,
		DValue:   r.DValue,
	}, nil
}
