package repository

import "github.com/dorpsplein/dorpsplein-api/internal/domain/entity"

// ListingFilter narrows a listing query. Zero values mean "any".
type ListingFilter struct {
	UserID   string
	Category string
	Status   string
	// View is "dorpsplein" (priced, published) or "inspiratie"
	// (unpriced, published); empty returns everything matching the
	// other fields.
	View string
}

// ListingRepository defines persistence for the unified listing resource.
type ListingRepository interface {
	Create(l *entity.Listing) error
	GetByID(id string) (*entity.Listing, error)
	List(f ListingFilter) ([]*entity.Listing, error)
	Update(l *entity.Listing) error
	Delete(id string) error
}

// WorkplacePhotoRepository stores seller workplace photos.
type WorkplacePhotoRepository interface {
	Add(p *entity.WorkplacePhoto) error
	ListByUser(userID string) ([]*entity.WorkplacePhoto, error)
	Delete(id, userID string) error
}
