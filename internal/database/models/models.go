// Package models contains the database model definitions. These models map
// directly to the SQLite tables the fixture editor persists projects into.
package models

import (
	"time"
)

// Project represents a lighting installation project.
// Table: projects
type Project struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name"`
	Description *string   `gorm:"column:description"`
	PixelCount  int       `gorm:"column:pixel_count;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relations (loaded separately)
	Fixtures []Fixture `gorm:"foreignKey:ProjectID"`
}

func (Project) TableName() string { return "projects" }

// Fixture represents one node in a project's fixture tree. ParentID is nil
// for top-level fixtures; Position orders siblings.
// Table: fixtures
type Fixture struct {
	ID          string    `gorm:"column:id;primaryKey"`
	ProjectID   string    `gorm:"column:project_id;index"`
	ParentID    *string   `gorm:"column:parent_id;index"`
	Label       string    `gorm:"column:label"`
	Position    int       `gorm:"column:position;default:0"`
	Enabled     bool      `gorm:"column:enabled;default:true"`
	Deactivated bool      `gorm:"column:deactivated;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relations
	Outputs []OutputDefinition `gorm:"foreignKey:FixtureID"`
}

func (Fixture) TableName() string { return "fixtures" }

// OutputDefinition represents one declared output on a fixture.
// Table: output_definitions
type OutputDefinition struct {
	ID        string `gorm:"column:id;primaryKey"`
	FixtureID string `gorm:"column:fixture_id;index"`
	Position  int    `gorm:"column:position;default:0"`

	Protocol     string  `gorm:"column:protocol"`              // ArtNet, sACN, DDP, KiNET, OPC
	Transport    string  `gorm:"column:transport;default:UDP"` // UDP, TCP
	Address      string  `gorm:"column:address"`
	Port         int     `gorm:"column:port;default:0"`
	Universe     int     `gorm:"column:universe;default:0"`
	Channel      int     `gorm:"column:channel;default:0"`
	Priority     int     `gorm:"column:priority;default:0"`
	Sequential   bool    `gorm:"column:sequential;default:false"`
	KinetVersion string  `gorm:"column:kinet_version;default:PORTOUT"` // PORTOUT, DMXOUT
	FPS          float64 `gorm:"column:fps;default:0"`

	// Relations
	Segments []SegmentDefinition `gorm:"foreignKey:OutputID"`
}

func (OutputDefinition) TableName() string { return "output_definitions" }

// SegmentDefinition represents one contiguous run of pixel indices within
// an output. Start and Count address the project's global color buffer.
// Table: segment_definitions
type SegmentDefinition struct {
	ID       string `gorm:"column:id;primaryKey"`
	OutputID string `gorm:"column:output_id;index"`
	Position int    `gorm:"column:position;default:0"`

	Start      int     `gorm:"column:start;default:0"`
	Count      int     `gorm:"column:count;default:0"`
	Encoder    string  `gorm:"column:encoder;default:RGB"`
	Stride     int     `gorm:"column:stride;default:0"`
	Reverse    bool    `gorm:"column:reverse;default:false"`
	Repeat     int     `gorm:"column:repeat;default:1"`
	PadPre     int     `gorm:"column:pad_pre;default:0"`
	PadPost    int     `gorm:"column:pad_post;default:0"`
	Header     []byte  `gorm:"column:header"`
	Footer     []byte  `gorm:"column:footer"`
	Brightness float64 `gorm:"column:brightness;default:1"`
}

func (SegmentDefinition) TableName() string { return "segment_definitions" }
