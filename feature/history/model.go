package history

import "time"

// Entry is the recorded outcome of one item in one page run.
type Entry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RunID      string    `gorm:"size:36;index" json:"run_id"`
	Source     string    `gorm:"size:255" json:"source"`
	ItemIndex  int       `json:"item_index"`
	Item       string    `gorm:"size:255" json:"item"`
	Outcome    string    `gorm:"size:16;index" json:"outcome"`
	Error      string    `gorm:"type:text" json:"error,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName pins the table name.
func (Entry) TableName() string {
	return "load_history"
}

// Columns lists the columns the Entry model maps to.
var Columns = []string{"id", "run_id", "source", "item_index", "item", "outcome", "error", "duration_ms", "created_at"}
