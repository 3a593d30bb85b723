// internal/domain/enrollment.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EnrollmentStatus type for enrollment lifecycle
type EnrollmentStatus string

const (
	EnrollmentPending     EnrollmentStatus = "pending"      // created, waiting for mentor acceptance
	EnrollmentPaidPending EnrollmentStatus = "paid_pending" // payment arrived before the mentor accepted
	EnrollmentActive      EnrollmentStatus = "active"       // mentor accepted, coaching period running
	EnrollmentCompleted   EnrollmentStatus = "completed"    // coaching period elapsed
	EnrollmentRejected    EnrollmentStatus = "rejected"     // mentor declined; terminal
)

// PackageType identifies the billing package duration class.
type PackageType string

const (
	PackageHourly     PackageType = "hourly"
	PackageMonthly    PackageType = "monthly"
	PackageQuarterly  PackageType = "quarterly"
	PackageHalfYearly PackageType = "halfYearly"
	PackageYearly     PackageType = "yearly"
)

// packageDays maps calendar package types to their duration in days.
// Unknown types resolve to 0 days, so the enrollment ends the moment it is
// accepted rather than erroring on user-authored data.
var packageDays = map[PackageType]int{
	PackageMonthly:    30,
	PackageQuarterly:  90,
	PackageHalfYearly: 180,
	PackageYearly:     365,
}

// Package is the billing package attached to an enrollment.
type Package struct {
	Type  PackageType `bson:"type" json:"type"`
	Rate  int         `bson:"rate,omitempty" json:"rate,omitempty"` // minutes; only meaningful for hourly
	Price float64     `bson:"price,omitempty" json:"price,omitempty"`
}

// Enrollment is a client-mentor coaching relationship with a billing
// package and lifecycle status.
type Enrollment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID   primitive.ObjectID `bson:"clientId" json:"clientId"`
	MentorID   primitive.ObjectID `bson:"mentorId" json:"mentorId"`
	Status     EnrollmentStatus   `bson:"status" json:"status"`
	Package    *Package           `bson:"package,omitempty" json:"package,omitempty"`
	AcceptedAt *time.Time         `bson:"acceptedAt,omitempty" json:"acceptedAt,omitempty"`
	EndDate    *time.Time         `bson:"endDate,omitempty" json:"endDate,omitempty"`
	PaymentID  string             `bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ComputeEndDate derives when the coaching period ends from the package and
// acceptance timestamp. Returns nil when either is missing. Hourly packages
// run for Rate minutes from acceptance; calendar packages add a fixed number
// of days; unknown package types add nothing.
func (e *Enrollment) ComputeEndDate() *time.Time {
	if e.AcceptedAt == nil || e.Package == nil {
		return nil
	}
	if e.Package.Type == PackageHourly {
		rate := e.Package.Rate
		if rate < 0 {
			rate = 0
		}
		end := e.AcceptedAt.Add(time.Duration(rate) * time.Minute)
		return &end
	}
	end := e.AcceptedAt.AddDate(0, 0, packageDays[e.Package.Type])
	return &end
}

// DeriveStatus computes the read-derived status at the given instant.
// Pending, paid_pending, and rejected never auto-transition; only an active
// enrollment rolls over to completed once now passes the end date. The
// caller persists the new value when it differs from the stored one.
func (e *Enrollment) DeriveStatus(now time.Time) EnrollmentStatus {
	switch e.Status {
	case EnrollmentPending, EnrollmentPaidPending, EnrollmentRejected:
		return e.Status
	}
	if e.AcceptedAt == nil {
		return EnrollmentPending
	}
	end := e.ComputeEndDate()
	if end == nil {
		return e.Status
	}
	if now.After(*end) {
		return EnrollmentCompleted
	}
	return EnrollmentActive
}
