package domain

import "time"

// ImageType classifies what a processed image belongs to.
type ImageType string

const (
	ImageTypeUserProfile  ImageType = "user_profile"
	ImageTypeProjectImage ImageType = "project_image"
)

// ProcessedImage is the metadata entity for a derived image asset. It has no
// status machine; AddThumbnail and UpdateDimensions are the only mutators and
// both return new instances.
type ProcessedImage struct {
	ID           string
	OriginalURL  ImageURL
	Size         ImageSize
	Format       ImageFormat
	Type         ImageType
	OwnerID      UserID
	ThumbnailURL *ImageURL
	Width        *int
	Height       *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewProcessedImage constructs the entity from its required fields.
func NewProcessedImage(id string, originalURL ImageURL, size ImageSize, format ImageFormat, imageType ImageType, ownerID UserID) (ProcessedImage, error) {
	if id == "" {
		return ProcessedImage{}, validationErr("processedImage", "id is required")
	}
	if ownerID == "" {
		return ProcessedImage{}, validationErr("processedImage", "owner id is required")
	}

	now := time.Now().UTC()
	return ProcessedImage{
		ID:          id,
		OriginalURL: originalURL,
		Size:        size,
		Format:      format,
		Type:        imageType,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// AddThumbnail attaches a thumbnail location.
func (p ProcessedImage) AddThumbnail(url ImageURL) ProcessedImage {
	next := p
	next.ThumbnailURL = &url
	next.UpdatedAt = time.Now().UTC()
	return next
}

// UpdateDimensions records the pixel dimensions; both must be positive.
func (p ProcessedImage) UpdateDimensions(width, height int) (ProcessedImage, error) {
	if width <= 0 || height <= 0 {
		return ProcessedImage{}, validationErr("processedImage", "dimensions must be positive")
	}

	next := p
	next.Width = &width
	next.Height = &height
	next.UpdatedAt = time.Now().UTC()
	return next, nil
}
