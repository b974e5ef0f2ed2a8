package entities

type Ingredient struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"size:128;not null;index" json:"name"`
	MeasurementUnit string `gorm:"size:64;not null" json:"measurement_unit"`
}

type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:32;not null;uniqueIndex" json:"name"`
	Slug string `gorm:"size:32;not null;uniqueIndex" json:"slug"`
}
