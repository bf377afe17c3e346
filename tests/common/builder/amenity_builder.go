//go:build unit || e2e

package builder

import (
	"resihub/internal/domain/amenity"

	"github.com/google/uuid"
)

type AmenityBuilder struct {
	ID          uuid.UUID
	Name        string
	OpenMinute  int
	CloseMinute int
	SlotMinutes int
	Capacity    int32
	UnitPrice   int64
	Active      bool
}

func NewAmenityBuilder() *AmenityBuilder {
	return &AmenityBuilder{
		ID:          uuid.New(),
		Name:        "Swimming Pool",
		OpenMinute:  8 * 60,
		CloseMinute: 20 * 60,
		SlotMinutes: 60,
		Capacity:    4,
		UnitPrice:   50000,
		Active:      true,
	}
}

func (a *AmenityBuilder) With(mutate func(*AmenityBuilder)) *AmenityBuilder {
	mutate(a)
	return a
}

func (a *AmenityBuilder) BuildDomain() (*amenity.Definition, error) {
	return amenity.NewDefinition(a.ID, a.Name, a.OpenMinute, a.CloseMinute, a.SlotMinutes, a.Capacity, a.UnitPrice, a.Active)
}
