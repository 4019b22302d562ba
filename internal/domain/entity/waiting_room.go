package entity

import "time"

type WaitingStatus string

const (
	WaitingStatusWaiting   WaitingStatus = "waiting"
	WaitingStatusAttended  WaitingStatus = "attended"
	WaitingStatusCancelled WaitingStatus = "cancelled"
)

type WaitingPriority string

const (
	WaitingPriorityNormal WaitingPriority = "normal"
	WaitingPriorityUrgent WaitingPriority = "urgent"
)

// WaitingRoomEntry queues an ACTIVE patient for a consultation. QueueNumber
// is unique per clinic and day and never reused.
type WaitingRoomEntry struct {
	ID             uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	ClinicID       uint            `gorm:"not null;uniqueIndex:idx_waiting_clinic_day_queue,priority:1" json:"clinic_id"`
	QueueDate      time.Time       `gorm:"type:date;not null;uniqueIndex:idx_waiting_clinic_day_queue,priority:2" json:"queue_date"`
	QueueNumber    int             `gorm:"not null;uniqueIndex:idx_waiting_clinic_day_queue,priority:3" json:"queue_number"`
	PatientID      uint            `gorm:"not null;index" json:"patient_id"`
	PatientCode    string          `gorm:"type:varchar(40);not null" json:"patient_code"`
	Reason         string          `gorm:"type:text" json:"reason,omitempty"`
	Priority       WaitingPriority `gorm:"type:varchar(10);not null;default:'normal'" json:"priority"`
	Status         WaitingStatus   `gorm:"type:varchar(20);not null;default:'waiting';index" json:"status"`
	ConsultationID *uint           `json:"consultation_id,omitempty"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (WaitingRoomEntry) TableName() string {
	return "waiting_room_entries"
}

// IsWaiting checks if the entry is still queued
func (w *WaitingRoomEntry) IsWaiting() bool {
	return w.Status == WaitingStatusWaiting
}

// QueueDay truncates t to the UTC calendar day used for queue numbering.
func QueueDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}
