package protocolmodels

import (
	"errors"
	"fmt"

	"github.com/jiaming2012/protocol-backup/src/unixtime"
)

var (
	ErrProtocolNotFound   = errors.New("protocol not found")
	ErrInvalidFormat      = unixtime.ErrInvalidFormat
	ErrInvalidRecordShape = fmt.Errorf("%w: invalid record shape", unixtime.ErrInvalidFormat)
	ErrInvalidState       = errors.New("invalid state")
	ErrInvalidRange       = errors.New("invalid protocol range")
	ErrProtocolOverlap    = errors.New("protocol overlaps stored data")
	ErrUnknownField       = errors.New("unknown record field")
)
