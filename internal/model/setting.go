package model

// Setting is one key/value row in the bot's configuration namespace.
// Values are plain strings; list-valued settings store a JSON array.
type Setting struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `gorm:"not null" json:"value"`
}

func (Setting) TableName() string {
	return "settings"
}
