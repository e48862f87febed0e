package model

// PendingCollection is a moderation-queue entry for a collection awaiting
// admin review, annotated with the collector's identity and the paired
// before/after images.
type PendingCollection struct {
	TrashReport
	CollectorName  string `json:"collectorName,omitempty"`
	CollectorEmail string `json:"collectorEmail,omitempty"`
}

// PendingArea is a moderation-queue entry for an area cleaning awaiting
// admin approval, annotated with the submitter's identity.
type PendingArea struct {
	AreaCleaning
	UserName  string `json:"userName,omitempty"`
	UserEmail string `json:"userEmail,omitempty"`
}
