package model

import "time"

// Reading represents one amperage sample reported for a user and product.
type Reading struct {
	ID        string  `gorm:"primaryKey;size:24" json:"id"`
	Username  string  `gorm:"size:50;not null;index:idx_readings_user_time,priority:1;index:idx_readings_product_user_time,priority:2;index:idx_readings_product_user_sensor_time,priority:2" json:"username"`
	Amper     float64 `gorm:"not null" json:"amper"`
	ProductID string  `gorm:"size:24;not null;index:idx_readings_product_time,priority:1;index:idx_readings_product_user_time,priority:1;index:idx_readings_product_user_sensor_time,priority:1" json:"productId"`
	// Sensor is empty when the reading was not tagged with a channel.
	Sensor    string    `gorm:"size:128;index:idx_readings_product_user_sensor_time,priority:3" json:"sensor,omitempty"`
	CreatedAt time.Time `gorm:"not null;index:idx_readings_user_time,priority:2;index:idx_readings_product_time,priority:2;index:idx_readings_product_user_time,priority:3;index:idx_readings_product_user_sensor_time,priority:4" json:"createdAt"`

	// Associations
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}
