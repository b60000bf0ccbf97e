package protocolmodels

type ImportStatus string

const (
	ImportStatusOK       ImportStatus = "ok"
	ImportStatusConflict ImportStatus = "conflict"
	ImportStatusFailed   ImportStatus = "failed"
)

// ImportResult is the outcome of importing one document.
type ImportResult struct {
	Source     string
	Name       string
	Status     ImportStatus
	ProtocolID int64
	Samples    int
	Err        error
}
