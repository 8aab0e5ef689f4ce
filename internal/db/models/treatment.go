package models

import "time"

// Treatment represents a medical treatment or procedure page.
// A treatment can optionally belong to a department.
type Treatment struct {
	// ID is the unique identifier for the treatment.
	ID uint64 `gorm:"primaryKey"`
	// Slug is the URL segment for the treatment page.
	Slug string `gorm:"unique;size:150;not null"`
	// Name is the display name of the treatment.
	Name string `gorm:"size:150;not null"`
	// Summary is a short teaser shown in the treatment directory.
	Summary string `gorm:"size:500"`
	// Body is the full page content (HTML).
	Body string `gorm:"type:text"`
	// DepartmentID is the owning department, NULL when unassigned.
	DepartmentID *uint64 `gorm:"column:department_id;index"`
	// Department is the associated department (loaded via foreign key).
	Department *Department `gorm:"foreignKey:DepartmentID;constraint:OnDelete:SET NULL"`
	// SEOTitle overrides the page title for search engines when set.
	SEOTitle string `gorm:"size:200"`
	// SEODescription is the meta description for the treatment page.
	SEODescription string `gorm:"size:300"`
	// Published controls visibility on the public site.
	Published bool
	// CreatedAt is the timestamp when the treatment was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the treatment was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Treatment model.
func (Treatment) TableName() string {
	return "treatments"
}

// AssignedDepartmentID returns the department FK, or zero when unassigned.
func (t Treatment) AssignedDepartmentID() uint64 {
	if t.DepartmentID == nil {
		return 0
	}

	return *t.DepartmentID
}
