package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// OtherCoursePrefix marks a student as belonging to a course that is not
// managed on this platform ("other:<free text>").
const OtherCoursePrefix = "other:"

// IsOtherCourseRef reports whether a section ref names an off-platform
// course rather than a managed section.
func IsOtherCourseRef(ref string) bool {
	return strings.HasPrefix(ref, OtherCoursePrefix)
}

type Student struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	StudentID string `json:"student_id" gorm:"not null;uniqueIndex"` // public key
	FullName  string `json:"full_name" gorm:"not null"`
	Persona   string `json:"persona"`

	// SectionRef is absent, a Section public ID, or "other:" prefixed.
	// It may dangle (reference a section deleted since enrollment); the
	// roster classifier treats dangling refs as unassigned.
	SectionRef *string `json:"section_id,omitempty" gorm:"index"`

	// FinishedAt is set when the chat ends, whether or not the evaluation
	// pipeline produced a record afterwards.
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
