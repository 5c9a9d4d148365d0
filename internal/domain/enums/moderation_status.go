package enums

type ModerationStatus string

const (
	ModerationStatusPending   ModerationStatus = "pending"
	ModerationStatusApproved  ModerationStatus = "approved"
	ModerationStatusRejected  ModerationStatus = "rejected"
	ModerationStatusReviewing ModerationStatus = "reviewing"
)
