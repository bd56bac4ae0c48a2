package model

// Profile is the user account row. Credits only ever grow through a recorded top-up.
type Profile struct {
	ID      string `gorm:"column:id;primaryKey;type:varchar(64)"`
	Email   string `gorm:"column:email;type:varchar(255)"`
	Credits int64  `gorm:"column:credits;not null;default:0"`
}

func (Profile) TableName() string {
	return "profiles"
}
