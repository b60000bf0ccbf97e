package protocolmodels

import "time"

type Records []Record

func (records Records) Offset(delta time.Duration) {
	for i := range records {
		records[i].Datetime = records[i].Datetime.Add(delta)
	}
}

// FirstOutside returns the index of the first record not strictly inside (begin, end), or -1.
func (records Records) FirstOutside(begin, end time.Time) int {
	for i, r := range records {
		if !r.Datetime.After(begin) || !r.Datetime.Before(end) {
			return i
		}
	}

	return -1
}

func (records Records) ToDTO() []RecordDTO {
	out := make([]RecordDTO, len(records))
	for i, r := range records {
		out[i] = r.ToDTO()
	}

	return out
}
