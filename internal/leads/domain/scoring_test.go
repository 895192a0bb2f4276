package domain

import "testing"

func TestProfileForSource(t *testing.T) {
	cases := []struct {
		source Source
		want   Profile
	}{
		{SourceWebsite, Profile{PriorityHigh, RatingHot, 90}},
		{SourceReferral, Profile{PriorityHigh, RatingHot, 85}},
		{SourceSocialMedia, Profile{PriorityMedium, RatingWarm, 70}},
		{SourceEmailCampaign, Profile{PriorityLow, RatingCold, 50}},
		{SourceAdvertisement, Profile{PriorityLow, RatingCold, 40}},
		{SourceManual, Profile{PriorityMedium, RatingWarm, 60}},
	}
	for _, tc := range cases {
		if got := ProfileForSource(tc.source); got != tc.want {
			t.Errorf("source %q: expected %+v, got %+v", tc.source, tc.want, got)
		}
	}
}

func TestUnmappedSourceFallsBackToManualProfile(t *testing.T) {
	got := ProfileForSource(Source("Cold Call"))
	want := Profile{PriorityMedium, RatingWarm, 60}
	if got != want {
		t.Fatalf("expected manual default %+v, got %+v", want, got)
	}
}
