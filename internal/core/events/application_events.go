package events

const (
	EventTypeApplicationSubmitted     = "application.submitted"
	EventTypeApplicationStatusChanged = "application.status_changed"
)

func NewApplicationSubmittedEvent(applicationID, jobID, candidateID string) BaseEvent {
	return NewEvent(EventTypeApplicationSubmitted, map[string]interface{}{
		"application_id": applicationID,
		"job_id":         jobID,
		"candidate_id":   candidateID,
	})
}

func NewApplicationStatusChangedEvent(applicationID, jobID, candidateID, status string) BaseEvent {
	return NewEvent(EventTypeApplicationStatusChanged, map[string]interface{}{
		"application_id": applicationID,
		"job_id":         jobID,
		"candidate_id":   candidateID,
		"status":         status,
	})
}
