package entity

import "time"

// Listing categories. One per seller role.
const (
	CategoryCheff    = "CHEFF"
	CategoryGrown    = "GROWN"
	CategoryDesigner = "DESIGNER"
)

// Listing statuses.
const (
	StatusPrivate   = "PRIVATE"
	StatusPublished = "PUBLISHED"
)

// Delivery modes for sellable listings.
const (
	DeliveryPickup  = "pickup"
	DeliveryCourier = "courier"
	DeliveryBoth    = "both"
)

// Photo is a single image attached to a listing. A photo with a
// StepNumber or PhaseNumber is a process photo, not a hero photo.
type Photo struct {
	ID          string `json:"id,omitempty"`
	URL         string `json:"url"`
	Index       int    `json:"index"`
	IsMain      bool   `json:"isMain"`
	StepNumber  *int   `json:"stepNumber,omitempty"`  // recipe instruction step
	PhaseNumber *int   `json:"phaseNumber,omitempty"` // garden growth phase
}

// IsProcess reports whether the photo belongs to an instruction step or
// growth phase rather than the hero photo set.
func (p Photo) IsProcess() bool {
	return p.StepNumber != nil || p.PhaseNumber != nil
}

// RecipeDetails are the CHEFF-specific structured fields.
type RecipeDetails struct {
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	PrepTime     int      `json:"prepTime"` // minutes
	Servings     int      `json:"servings"`
	Difficulty   string   `json:"difficulty"` // easy, medium, hard
}

// GardenDetails are the GROWN-specific structured fields.
type GardenDetails struct {
	PlantType   string     `json:"plantType"`
	Sunlight    string     `json:"sunlight"` // full, partial, shade
	Water       string     `json:"water"`    // low, medium, high
	Location    string     `json:"location"` // garden, balcony, indoor, allotment
	SowingDate  *time.Time `json:"sowingDate,omitempty"`
	HarvestDate *time.Time `json:"harvestDate,omitempty"`
}

// DesignDetails are the DESIGNER-specific structured fields.
type DesignDetails struct {
	Materials  []string `json:"materials"`
	Technique  string   `json:"technique"`
	Dimensions string   `json:"dimensions"`
}

// Listing is the unified "dish" record spanning recipes, garden projects
// and design creations, disambiguated by Category.
//
// A listing with no price is inspiration only; a listing with
// PriceCents > 0 and status PUBLISHED is sellable on the dorpsplein.
type Listing struct {
	ID          string
	UserID      string
	Category    string
	Title       string
	Description string
	Status      string

	Photos   []Photo
	VideoURL string
	Tags     []string

	// Commerce fields, present only when published for sale
	PriceCents   int
	Stock        int
	MaxStock     int
	DeliveryMode string

	Recipe *RecipeDetails
	Garden *GardenDetails
	Design *DesignDetails

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Sellable reports whether the listing appears on the dorpsplein
// (for-sale) view.
func (l *Listing) Sellable() bool {
	return l.PriceCents > 0 && l.Status == StatusPublished
}

// Inspiration reports whether the listing appears on the inspiratie
// (idea-sharing) view.
func (l *Listing) Inspiration() bool {
	return l.PriceCents == 0 && l.Status == StatusPublished
}

// MainPhotos returns the hero photos (non-process) in index order.
// The slice shares backing storage with l.Photos.
func (l *Listing) MainPhotos() []Photo {
	out := make([]Photo, 0, len(l.Photos))
	for _, p := range l.Photos {
		if !p.IsProcess() {
			out = append(out, p)
		}
	}
	return out
}

// ProcessPhotos returns the step/phase photos.
func (l *Listing) ProcessPhotos() []Photo {
	out := make([]Photo, 0)
	for _, p := range l.Photos {
		if p.IsProcess() {
			out = append(out, p)
		}
	}
	return out
}

// WorkplacePhoto is a photo of a seller's kitchen, garden or studio,
// shown on the public seller profile.
type WorkplacePhoto struct {
	ID        string
	UserID    string
	URL       string
	Caption   string
	Index     int
	CreatedAt time.Time
}
