package protocolmodels

import (
	"fmt"
	"time"

	"github.com/jiaming2012/protocol-backup/src/unixtime"
)

const (
	FieldRecordID = "record_id"
	FieldDatetime = "datetime"
	FieldValue    = "value"
	FieldDValue   = "d_value"
)

// RecordFields lists the fields of a Record in document order.
var RecordFields = []string{FieldRecordID, FieldDatetime, FieldValue, FieldDValue}

// Record is one sample row of the data table.
type Record struct {
	RecordID int64
	Datetime time.Time
	Value    float64
	DValue   float64
}

func (r Record) Get(field string) (any, error) {
	switch field {
	case FieldRecordID:
		return r.RecordID, nil
	case FieldDatetime:
		return r.Datetime, nil
	case FieldValue:
		return r.Value, nil
	case FieldDValue:
		return r.DValue, nil
	}

	return nil, fmt.Errorf("Record.Get: %w: %q", ErrUnknownField, field)
}

func (r *Record) Set(field string, v any) error {
	switch field {
	case FieldRecordID:
		id, ok := v.(int64)
		if !ok {
			return fmt.Errorf("Record.Set: %s expects int64, found %T", field, v)
		}
		r.RecordID = id
	case FieldDatetime:
		t, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("Record.Set: %s expects time.Time, found %T", field, v)
		}
		r.Datetime = t
	case FieldValue, FieldDValue:
		f, ok := v.(float64)
		if !ok {
			return fmt.Errorf("Record.Set: %s expects float64, found %T", field, v)
		}
		if field == FieldValue {
			r.Value = f
		} else {
			r.DValue = f
		}
	default:
		return fmt.Errorf("Record.Set: %w: %q", ErrUnknownField, field)
	}

	return nil
}

func (r Record) ToDTO() RecordDTO {
	return RecordDTO{
		RecordID: r.RecordID,
		Datetime: unixtime.FormatISO(r.Datetime),
		Value:    r.Value,
		DValue:   r.DValue,
	}
}
