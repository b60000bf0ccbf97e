package protocolmodels

// ProtocolLink associates a protocol with a recorder.
type ProtocolLink struct {
	ProtocolID int64
	RecordID   int64
}

type ProtocolLinkDTO struct {
	ProtocolID int64 `json:"protocol_id"`
	RecordID   int64 `json:"record_id"`
}

func (l ProtocolLink) ToDTO() ProtocolLinkDTO {
	return ProtocolLinkDTO{ProtocolID: l.ProtocolID, RecordID: l.RecordID}
}

func (l ProtocolLinkDTO) ToModel() ProtocolLink {
	return ProtocolLink{ProtocolID: l.ProtocolID, RecordID: l.RecordID}
}
