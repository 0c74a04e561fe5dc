package models

import "time"

// BusinessStatus represents the lifecycle status of a business profile.
// Businesses are never hard-deleted, only moved between statuses.
type BusinessStatus string

const (
	BusinessStatusActive    BusinessStatus = "active"
	BusinessStatusPending   BusinessStatus = "pending"
	BusinessStatusSuspended BusinessStatus = "suspended"
)

// ProfileSection identifies one of the four profile-edit sections. Saving a
// section with all required fields non-empty marks its completion flag.
type ProfileSection string

const (
	SectionBasicInfo         ProfileSection = "basic_info"
	SectionContactDetails    ProfileSection = "contact_details"
	SectionMedia             ProfileSection = "media"
	SectionCategoriesAndTags ProfileSection = "categories_and_tags"
)

// Fixed business rules, not configurable.
const (
	CompletionPostingThreshold  = 50
	CompletionVerifiedThreshold = 75
	CompletionFeaturedThreshold = 75
)

// ProfileCompletion tracks the four section-complete flags and the derived
// percentage. CompletionPercentage must always equal
// round(100 * trueCount / 4); call Recalculate after flipping a flag.
type ProfileCompletion struct {
	BasicInfo            bool `json:"basic_info" dynamodbav:"basic_info"`
	ContactDetails       bool `json:"contact_details" dynamodbav:"contact_details"`
	Media                bool `json:"media" dynamodbav:"media"`
	CategoriesAndTags    bool `json:"categories_and_tags" dynamodbav:"categories_and_tags"`
	CompletionPercentage int  `json:"completion_percentage" dynamodbav:"completion_percentage"`
}

// Recalculate re-derives the percentage from the four flags.
func (p *ProfileCompletion) Recalculate() {
	count := 0
	for _, flag := range []bool{p.BasicInfo, p.ContactDetails, p.Media, p.CategoriesAndTags} {
		if flag {
			count++
		}
	}
	p.CompletionPercentage = count * 100 / 4
}

// SetSection flips one section flag and recalculates the percentage.
func (p *ProfileCompletion) SetSection(section ProfileSection, done bool) {
	switch section {
	case SectionBasicInfo:
		p.BasicInfo = done
	case SectionContactDetails:
		p.ContactDetails = done
	case SectionMedia:
		p.Media = done
	case SectionCategoriesAndTags:
		p.CategoriesAndTags = done
	}
	p.Recalculate()
}

// Business represents a company profile in the directory
type Business struct {
	ID          string `json:"id" dynamodbav:"id" validate:"omitempty,uuid4"`
	Name        string `json:"name" dynamodbav:"name" validate:"required,min=2,max=100"`
	Slug        string `json:"slug" dynamodbav:"slug"`
	Tagline     string `json:"tagline,omitempty" dynamodbav:"tagline,omitempty" validate:"omitempty,max=150"`
	Description string `json:"description,omitempty" dynamodbav:"description,omitempty" validate:"omitempty,max=2000"`

	// Categorization
	Sector    string   `json:"sector,omitempty" dynamodbav:"sector,omitempty"`
	Subsector string   `json:"subsector,omitempty" dynamodbav:"subsector,omitempty"`
	Tags      []string `json:"tags,omitempty" dynamodbav:"tags,omitempty"`

	// Contact
	Email      string `json:"email,omitempty" dynamodbav:"email,omitempty" validate:"omitempty,email"`
	Phone      string `json:"phone,omitempty" dynamodbav:"phone,omitempty" validate:"omitempty,e164"`
	Website    string `json:"website,omitempty" dynamodbav:"website,omitempty" validate:"omitempty,url"`
	Address    string `json:"address,omitempty" dynamodbav:"address,omitempty" validate:"omitempty,max=200"`
	City       string `json:"city,omitempty" dynamodbav:"city,omitempty" validate:"omitempty,min=2,max=50"`
	State      string `json:"state,omitempty" dynamodbav:"state,omitempty" validate:"omitempty,min=2,max=50"`
	PostalCode string `json:"postal_code,omitempty" dynamodbav:"postal_code,omitempty" validate:"omitempty,min=3,max=20"`
	Country    string `json:"country,omitempty" dynamodbav:"country,omitempty" validate:"omitempty,min=2,max=50"`

	// Business details
	YearFounded   int    `json:"year_founded,omitempty" dynamodbav:"year_founded,omitempty"`
	EmployeeCount string `json:"employee_count,omitempty" dynamodbav:"employee_count,omitempty"`
	BusinessType  string `json:"business_type,omitempty" dynamodbav:"business_type,omitempty"`

	// Media references (opaque URLs owned by the blob store)
	LogoURL   string   `json:"logo_url,omitempty" dynamodbav:"logo_url,omitempty"`
	BannerURL string   `json:"banner_url,omitempty" dynamodbav:"banner_url,omitempty"`
	Gallery   []string `json:"gallery,omitempty" dynamodbav:"gallery,omitempty"`

	// Relationships
	OwnerID string   `json:"owner_id" dynamodbav:"owner_id"`
	Members []string `json:"members" dynamodbav:"members"`

	// Status flags
	Verified bool           `json:"verified" dynamodbav:"verified"`
	Featured bool           `json:"featured" dynamodbav:"featured"`
	Status   BusinessStatus `json:"status" dynamodbav:"status" validate:"omitempty,oneof=active pending suspended"`

	ProfileCompletion ProfileCompletion `json:"profile_completion" dynamodbav:"profile_completion"`

	// Counters
	ViewCount     int `json:"view_count" dynamodbav:"view_count"`
	FollowerCount int `json:"follower_count" dynamodbav:"follower_count"`
	PostCount     int `json:"post_count" dynamodbav:"post_count"`

	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// CanPublishPosts reports whether the profile is complete enough to post.
func (b *Business) CanPublishPosts() bool {
	return b.ProfileCompletion.CompletionPercentage >= CompletionPostingThreshold
}

// ShowVerifiedBadge reports whether the verified badge should be displayed.
// Requires both the completion threshold and the independent verified flag.
func (b *Business) ShowVerifiedBadge() bool {
	return b.ProfileCompletion.CompletionPercentage >= CompletionVerifiedThreshold && b.Verified
}

// FeaturedEligible reports whether the business qualifies for homepage
// featuring.
func (b *Business) FeaturedEligible() bool {
	return b.ProfileCompletion.CompletionPercentage >= CompletionFeaturedThreshold
}

// IsMember reports whether the user owns or belongs to the business.
func (b *Business) IsMember(userID string) bool {
	if userID == "" {
		return false
	}
	if b.OwnerID == userID {
		return true
	}
	for _, m := range b.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// CreateBusinessRequest is the multipart form for POST /companies
type CreateBusinessRequest struct {
	Name        string `form:"name" validate:"required,min=2,max=100"`
	Tagline     string `form:"tagline" validate:"omitempty,max=150"`
	Description string `form:"description" validate:"omitempty,max=2000"`
	Sector      string `form:"sector"`
	Tags        string `form:"tags"` // comma separated
	Email       string `form:"email" validate:"omitempty,email"`
	Phone       string `form:"phone" validate:"omitempty,e164"`
	Website     string `form:"website" validate:"omitempty,url"`
	Address     string `form:"address" validate:"omitempty,max=200"`
	City        string `form:"city" validate:"omitempty,min=2,max=50"`
	State       string `form:"state" validate:"omitempty,min=2,max=50"`
	PostalCode  string `form:"postal_code" validate:"omitempty,min=3,max=20"`
	Country     string `form:"country" validate:"omitempty,min=2,max=50"`
	YearFounded string `form:"year_founded"`
}

// UpdateBusinessRequest is the body for PATCH /companies/:id. Section names
// the profile-edit step being saved; its completion flag is set when the
// section's required fields are all non-empty.
type UpdateBusinessRequest struct {
	Section     ProfileSection `json:"section" validate:"required,oneof=basic_info contact_details media categories_and_tags"`
	Name        string         `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Tagline     string         `json:"tagline,omitempty" validate:"omitempty,max=150"`
	Description string         `json:"description,omitempty" validate:"omitempty,max=2000"`
	Sector      string         `json:"sector,omitempty"`
	Subsector   string         `json:"subsector,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Email       string         `json:"email,omitempty" validate:"omitempty,email"`
	Phone       string         `json:"phone,omitempty" validate:"omitempty,e164"`
	Website     string         `json:"website,omitempty" validate:"omitempty,url"`
	Address     string         `json:"address,omitempty" validate:"omitempty,max=200"`
	City        string         `json:"city,omitempty" validate:"omitempty,min=2,max=50"`
	State       string         `json:"state,omitempty" validate:"omitempty,min=2,max=50"`
	PostalCode  string         `json:"postal_code,omitempty" validate:"omitempty,min=3,max=20"`
	Country     string         `json:"country,omitempty" validate:"omitempty,min=2,max=50"`
	LogoURL     string         `json:"logo_url,omitempty" validate:"omitempty,url"`
	BannerURL   string         `json:"banner_url,omitempty" validate:"omitempty,url"`
	Gallery     []string       `json:"gallery,omitempty"`
}

// BusinessFilter holds directory/search parameters
type BusinessFilter struct {
	Sector   string
	Query    string
	Page     int
	PageSize int
}
