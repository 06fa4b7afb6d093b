package service

import (
	"realestate/internal/model"
	"realestate/internal/utils"
)

const (
	islamabadMarker = "islamabad"
	unknownCity     = "Unknown City"
	resultImageURL  = "https://images.unsplash.com/photo-1600585154340-be6161a56a0c"
)

// Materializer produces the result cards shown at the end of the scripted
// conversation
type Materializer struct {
	imageURL string
}

// NewMaterializer creates a materializer using the default card image
func NewMaterializer() *Materializer {
	return &Materializer{imageURL: resultImageURL}
}

// Materialize returns a fresh result list for the city answer. Hints
// mentioning Islamabad get the fixed Islamabad set; anything else gets the
// fallback set located in the hinted city.
func (m *Materializer) Materialize(cityHint string) []model.ResultRecord {
	if utils.ContainsFold(cityHint, islamabadMarker) {
		return []model.ResultRecord{
			{Title: "Modern House in F-7", Price: "AED 1,200,000", Location: "Islamabad, F-7", ImageURL: m.imageURL},
			{Title: "Luxury Apartment in E-11", Price: "AED 800,000", Location: "Islamabad, E-11", ImageURL: m.imageURL},
			{Title: "Villa in G-13", Price: "AED 1,500,000", Location: "Islamabad, G-13", ImageURL: m.imageURL},
		}
	}

	location := cityHint
	if location == "" {
		location = unknownCity
	}
	return []model.ResultRecord{
		{Title: "Cozy Townhouse", Price: "AED 600,000", Location: location, ImageURL: m.imageURL},
		{Title: "Spacious Penthouse", Price: "AED 2,000,000", Location: location, ImageURL: m.imageURL},
	}
}
