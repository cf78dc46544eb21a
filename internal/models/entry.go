package models

// Entry is a stored income or expense record. Kind selects the collection
// ("expenses" or "incomes"); Date is kept as the text it was written with.
type Entry struct {
	Base
	UserID       string  `gorm:"type:uuid;not null;index:idx_entries_owner,priority:1" json:"user_id"`
	Kind         string  `gorm:"size:16;not null;index:idx_entries_owner,priority:2" json:"kind"`
	Amount       float64 `gorm:"not null" json:"amount"`
	Description  string  `gorm:"not null" json:"description"`
	Date         string  `gorm:"size:32" json:"date"`
	Status       string  `gorm:"size:16" json:"status"`
	RepeatOption string  `gorm:"size:32" json:"repeat_option,omitempty"`
	Type         string  `gorm:"size:16" json:"type,omitempty"`
}
