package telemetry

// Span and attribute names shared by instrumented components.
const (
	TracerName = "github.com/samirrijal/tourguide"

	SpanCalculateRewards = "rewards.calculate"
	SpanRewardBatch      = "scheduler.batch"
	SpanTrackLocation    = "tracker.track_location"
	SpanNearby           = "tourguide.nearby_attractions"

	AttrTravelerID     = "traveler.id"
	AttrTravelerCount  = "batch.travelers"
	AttrRewardsGranted = "rewards.granted"
	AttrAttractions    = "catalog.attractions"
)
