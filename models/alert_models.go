package models

import (
	// Go Internal Packages
	"time"

	// External Packages
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SeverityCritical = "CRITICAL"
	SeverityWarning  = "WARNING"
	SeverityInfo     = "INFO"
)

// SystemAlert is written by the external monitoring process; this service
// only lists and acknowledges them.
type SystemAlert struct {
	ID             primitive.ObjectID `json:"alertId" bson:"_id,omitempty"`
	Severity       string             `json:"severity" bson:"severity"`
	Title          string             `json:"title" bson:"title"`
	Message        string             `json:"message" bson:"message"`
	Acknowledged   bool               `json:"acknowledged" bson:"acknowledged"`
	AcknowledgedAt *time.Time         `json:"acknowledgedAt,omitempty" bson:"acknowledgedAt,omitempty"`
	Timestamp      time.Time          `json:"timestamp" bson:"timestamp"`
}

type AlertStats struct {
	Total                  int64 `json:"total"`
	Unacknowledged         int64 `json:"unacknowledged"`
	UnacknowledgedCritical int64 `json:"unacknowledgedCritical"`
}
