package model

import "time"

// Product represents a device class and the sensor channels it declares.
// A product's reading list is a derived view computed by querying readings
// with its id, never persisted on the product row itself.
type Product struct {
	ID        string    `gorm:"primaryKey;size:24" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Sensors   []string  `gorm:"serializer:json" json:"sensors"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// HasSensor reports whether name is one of the product's declared channels.
func (p *Product) HasSensor(name string) bool {
	for _, s := range p.Sensors {
		if s == name {
			return true
		}
	}
	return false
}
