package entity

import "time"

// MaxModelFileSize is the hard upload limit for model files (10 MB).
const MaxModelFileSize int64 = 10 * 1024 * 1024

const (
	MaxModelNameLength        = 100
	MaxModelDescriptionLength = 500
)

// Frameworks lists the framework values the catalog recognizes. An empty
// framework is allowed and means "unspecified".
var Frameworks = []string{
	"TensorFlow",
	"PyTorch",
	"ONNX",
	"TensorFlow Lite",
	"Core ML",
	"Other",
}

type Model struct {
	ID                  uint       `gorm:"primaryKey;column:id" json:"id"`
	UserID              string     `gorm:"column:user_id;size:64;index" json:"user_id"`
	Name                string     `gorm:"column:name;size:100" json:"name"`
	Description         string     `gorm:"column:description;size:500" json:"description"`
	UsageInstructions   string     `gorm:"column:usage_instructions;type:text" json:"usage_instructions"`
	MacInstructions     string     `gorm:"column:mac_instructions;type:text" json:"mac_instructions"`
	WindowsInstructions string     `gorm:"column:windows_instructions;type:text" json:"windows_instructions"`
	LinuxInstructions   string     `gorm:"column:linux_instructions;type:text" json:"linux_instructions"`
	Framework           string     `gorm:"column:framework" json:"framework"`
	Format              string     `gorm:"column:format" json:"format"`
	Tags                StringList `gorm:"column:tags;type:text" json:"tags"`
	FilePath            string     `gorm:"column:file_path" json:"file_path"`
	SizeBytes           int64      `gorm:"column:size_bytes" json:"size_bytes"`
	Downloads           int64      `gorm:"column:downloads" json:"downloads"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Model) TableName() string {
	return "models"
}
