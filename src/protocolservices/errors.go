package protocolservices

import (
	"errors"

	"github.com/jiaming2012/protocol-backup/src/protocolmodels"
)

func asOverlapError(err error) (*protocolmodels.OverlapError, bool) {
	var overlapErr *protocolmodels.OverlapError
	if errors.As(err, &overlapErr) {
		return overlapErr, true
	}

	return nil, false
}
