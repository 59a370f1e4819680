package model

// Default display attributes for a freshly created category.
const (
	DefaultCategoryColor = "#6B9B6B"
	DefaultCategoryIcon  = "folder"
)

// Category groups tasks by area (work, health, study, etc.). A task's
// category reference is always optional.
type Category struct {
	ID       uint
	Name     string
	ColorHex string
	IconName string
}
