package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileCompletionRecalculate(t *testing.T) {
	// Every flag combination: the percentage is 25 per completed section.
	for mask := 0; mask < 16; mask++ {
		pc := ProfileCompletion{
			BasicInfo:         mask&1 != 0,
			ContactDetails:    mask&2 != 0,
			Media:             mask&4 != 0,
			CategoriesAndTags: mask&8 != 0,
		}

		completed := 0
		for bit := 0; bit < 4; bit++ {
			if mask&(1<<bit) != 0 {
				completed++
			}
		}

		pc.Recalculate()
		assert.Equal(t, completed*25, pc.CompletionPercentage, "flag mask %04b", mask)
	}
}

func TestProfileCompletionSetSection(t *testing.T) {
	var pc ProfileCompletion

	pc.SetSection(SectionBasicInfo, true)
	assert.True(t, pc.BasicInfo)
	assert.Equal(t, 25, pc.CompletionPercentage)

	pc.SetSection(SectionMedia, true)
	assert.Equal(t, 50, pc.CompletionPercentage)

	pc.SetSection(SectionMedia, false)
	assert.False(t, pc.Media)
	assert.Equal(t, 25, pc.CompletionPercentage)

	// Unknown sections leave the flags alone
	pc.SetSection(ProfileSection("bogus"), true)
	assert.Equal(t, 25, pc.CompletionPercentage)
}

func TestCanPublishPosts(t *testing.T) {
	b := &Business{}

	b.ProfileCompletion.CompletionPercentage = 25
	assert.False(t, b.CanPublishPosts())

	b.ProfileCompletion.CompletionPercentage = 50
	assert.True(t, b.CanPublishPosts())

	b.ProfileCompletion.CompletionPercentage = 100
	assert.True(t, b.CanPublishPosts())
}

func TestShowVerifiedBadge(t *testing.T) {
	b := &Business{}

	// Threshold alone is not enough without the verified flag
	b.ProfileCompletion.CompletionPercentage = 100
	b.Verified = false
	assert.False(t, b.ShowVerifiedBadge())

	// The flag alone is not enough below the threshold
	b.ProfileCompletion.CompletionPercentage = 50
	b.Verified = true
	assert.False(t, b.ShowVerifiedBadge())

	b.ProfileCompletion.CompletionPercentage = 75
	b.Verified = true
	assert.True(t, b.ShowVerifiedBadge())
}

func TestFeaturedEligible(t *testing.T) {
	b := &Business{}

	b.ProfileCompletion.CompletionPercentage = 50
	assert.False(t, b.FeaturedEligible())

	b.ProfileCompletion.CompletionPercentage = 75
	assert.True(t, b.FeaturedEligible())
}

func TestIsMember(t *testing.T) {
	b := &Business{
		OwnerID: "owner-1",
		Members: []string{"owner-1", "member-2"},
	}

	assert.True(t, b.IsMember("owner-1"))
	assert.True(t, b.IsMember("member-2"))
	assert.False(t, b.IsMember("stranger"))
	assert.False(t, b.IsMember(""))
}
