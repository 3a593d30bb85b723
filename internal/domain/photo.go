// internal/domain/photo.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressPhoto stores metadata about a progress photo a client uploaded
// against a plan. The actual file resides in S3.
type ProgressPhoto struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`
	PlanID      primitive.ObjectID `bson:"planId" json:"planId"`
	S3ObjectKey string             `bson:"s3ObjectKey" json:"-"` // key in the bucket - internal use
	FileName    string             `bson:"fileName" json:"fileName"`
	ContentType string             `bson:"contentType" json:"contentType"` // e.g., "image/jpeg"
	Size        int64              `bson:"size" json:"size"`
	TakenOn     string             `bson:"takenOn,omitempty" json:"takenOn,omitempty"` // "YYYY-MM-DD"
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
