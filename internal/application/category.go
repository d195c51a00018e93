package application

import (
	"errors"

	"github.com/dorpsplein/dorpsplein-api/internal/domain/entity"
)

// CategoryDescriptor parameterizes the single listing manager per
// category: display labels and the category-specific field checks. This
// replaces one near-identical manager per category.
type CategoryDescriptor struct {
	Category string
	// Label is the Dutch-facing name used in messages ("recept", ...)
	Label string
	// SellerRole that may create listings of this category.
	SellerRole string
	// ValidateDetails checks the category-specific structured fields.
	// Called only when the listing carries a details record.
	ValidateDetails func(l *entity.Listing) []error
}

var categories = map[string]CategoryDescriptor{
	entity.CategoryCheff: {
		Category:   entity.CategoryCheff,
		Label:      "recept",
		SellerRole: entity.SellerRoleChef,
		ValidateDetails: func(l *entity.Listing) []error {
			var errs []error
			r := l.Recipe
			if r == nil {
				return nil
			}
			if r.PrepTime < 0 {
				errs = append(errs, errors.New("bereidingstijd kan niet negatief zijn"))
			}
			if r.Servings < 0 {
				errs = append(errs, errors.New("aantal porties kan niet negatief zijn"))
			}
			switch r.Difficulty {
			case "", "easy", "medium", "hard":
			default:
				errs = append(errs, errors.New("moeilijkheid moet easy, medium of hard zijn"))
			}
			// Step photos must reference an existing instruction.
			for _, p := range l.Photos {
				if p.StepNumber != nil && (*p.StepNumber < 1 || *p.StepNumber > len(r.Instructions)) {
					errs = append(errs, errors.New("stapfoto verwijst naar een onbekende stap"))
					break
				}
			}
			return errs
		},
	},
	entity.CategoryGrown: {
		Category:   entity.CategoryGrown,
		Label:      "moestuinproject",
		SellerRole: entity.SellerRoleGarden,
		ValidateDetails: func(l *entity.Listing) []error {
			var errs []error
			g := l.Garden
			if g == nil {
				return nil
			}
			switch g.Sunlight {
			case "", "full", "partial", "shade":
			default:
				errs = append(errs, errors.New("zonlicht moet full, partial of shade zijn"))
			}
			switch g.Water {
			case "", "low", "medium", "high":
			default:
				errs = append(errs, errors.New("water moet low, medium of high zijn"))
			}
			switch g.Location {
			case "", "garden", "balcony", "indoor", "allotment":
			default:
				errs = append(errs, errors.New("locatie moet garden, balcony, indoor of allotment zijn"))
			}
			if g.SowingDate != nil && g.HarvestDate != nil && g.HarvestDate.Before(*g.SowingDate) {
				errs = append(errs, errors.New("oogstdatum kan niet voor de zaaidatum liggen"))
			}
			return errs
		},
	},
	entity.CategoryDesigner: {
		Category:   entity.CategoryDesigner,
		Label:      "ontwerp",
		SellerRole: entity.SellerRoleDesigner,
		ValidateDetails: func(l *entity.Listing) []error {
			// Design details are free-form.
			return nil
		},
	},
}

// DescriptorFor looks up the category descriptor.
func DescriptorFor(category string) (CategoryDescriptor, bool) {
	d, ok := categories[category]
	return d, ok
}
