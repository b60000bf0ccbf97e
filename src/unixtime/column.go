package unixtime

import "time"

// Column scans a stored timestamp column into a time.Time through Decode.
type Column struct {
	Time *time.Time
	Loc  *time.Location
}

// Into returns a scan destination writing to t.
func Into(t *time.Time, loc *time.Location) Column {
	return Column{Time: t, Loc: loc}
}

func (c Column) Scan(src any) error {
	t, err := Decode(src)
	if err != nil {
		return err
	}

	if c.Loc != nil {
		t = t.In(c.Loc)
	}

	*c.Time = t
	return nil
}
