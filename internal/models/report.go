package models

import "time"

// DiseaseReport is the persisted record of a completed diagnosis.
type DiseaseReport struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	FarmerID      string    `json:"farmer_id" gorm:"size:100;index"`
	CropType      string    `json:"crop_type" gorm:"size:50"`
	Location      string    `json:"location" gorm:"size:200"`
	DiseaseName   string    `json:"disease_name" gorm:"size:100;index"`
	Confidence    float64   `json:"confidence"`
	SeverityLevel string    `json:"severity_level" gorm:"size:20"`
	ImageURL      string    `json:"image_url" gorm:"size:500"`
	ImageHash     string    `json:"image_hash" gorm:"size:64;uniqueIndex"`
	CreatedAt     time.Time `json:"created_at"`
}

func (DiseaseReport) TableName() string { return "disease_reports" }

// ReportJob is the queue message carrying a report to the persistence worker.
type ReportJob struct {
	ID        string        `json:"id"`
	Report    DiseaseReport `json:"report"`
	Status    string        `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	Error     string        `json:"error,omitempty"`
}

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// OutbreakAlert is one row of the outbreak analytics aggregation.
type OutbreakAlert struct {
	Disease  string `json:"disease"`
	Severity string `json:"severity"`
	Cases    int64  `json:"cases"`
}
