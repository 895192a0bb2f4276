package domain

// Source is the acquisition channel a lead came from.
type Source string

const (
	SourceWebsite       Source = "Website"
	SourceReferral      Source = "Referral"
	SourceSocialMedia   Source = "Social Media"
	SourceEmailCampaign Source = "Email Campaign"
	SourceAdvertisement Source = "Advertisement"
	SourceManual        Source = "Manual"
)

// Valid reports whether s is a known acquisition channel.
func (s Source) Valid() bool {
	_, ok := sourceProfiles[s]
	return ok
}

// Priority is the assignment tier derived from a lead's source.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Rating is the derived temperature of a lead.
type Rating string

const (
	RatingHot  Rating = "Hot"
	RatingWarm Rating = "Warm"
	RatingCold Rating = "Cold"
)

// Profile bundles the derived classification of a lead.
type Profile struct {
	Priority Priority
	Rating   Rating
	Score    int
}

var sourceProfiles = map[Source]Profile{
	SourceWebsite:       {PriorityHigh, RatingHot, 90},
	SourceReferral:      {PriorityHigh, RatingHot, 85},
	SourceSocialMedia:   {PriorityMedium, RatingWarm, 70},
	SourceEmailCampaign: {PriorityLow, RatingCold, 50},
	SourceAdvertisement: {PriorityLow, RatingCold, 40},
	SourceManual:        {PriorityMedium, RatingWarm, 60},
}

// ProfileForSource returns the fixed (priority, rating, score) classification
// for a source. Unknown sources fall back to the Manual profile.
func ProfileForSource(source Source) Profile {
	if profile, ok := sourceProfiles[source]; ok {
		return profile
	}
	return sourceProfiles[SourceManual]
}
