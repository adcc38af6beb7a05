package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	inviteSentCounter      metric.Int64Counter
	inviteDedupedCounter   metric.Int64Counter
	matchConfirmedCounter  metric.Int64Counter
	meetupCompletedCounter metric.Int64Counter

	checkInDistance metric.Float64Histogram
)

// InitMeetupMetrics initializes meetup lifecycle metrics.
func InitMeetupMetrics() error {
	meter := otel.Meter("meetspot.meetup")

	var err error

	inviteSentCounter, err = meter.Int64Counter(
		"invite.sent.count",
		metric.WithDescription("Number of invites created"),
		metric.WithUnit("{invite}"),
	)
	if err != nil {
		return err
	}

	inviteDedupedCounter, err = meter.Int64Counter(
		"invite.deduped.count",
		metric.WithDescription("Number of invite sends collapsed onto an existing live invite"),
		metric.WithUnit("{invite}"),
	)
	if err != nil {
		return err
	}

	matchConfirmedCounter, err = meter.Int64Counter(
		"match.confirmed.count",
		metric.WithDescription("Number of mutual confirmations promoted to a match"),
		metric.WithUnit("{match}"),
	)
	if err != nil {
		return err
	}

	meetupCompletedCounter, err = meter.Int64Counter(
		"meetup.completed.count",
		metric.WithDescription("Number of meetups completed with rewards issued"),
		metric.WithUnit("{meetup}"),
	)
	if err != nil {
		return err
	}

	checkInDistance, err = meter.Float64Histogram(
		"checkin.distance",
		metric.WithDescription("Distance between a reported location and the spot"),
		metric.WithUnit("m"),
	)
	if err != nil {
		return err
	}

	return nil
}

// RecordInviteSent records an invite creation; deduped marks sends that
// resolved to an already existing invite.
func RecordInviteSent(ctx context.Context, deduped bool) {
	if deduped {
		if inviteDedupedCounter != nil {
			inviteDedupedCounter.Add(ctx, 1)
		}
		return
	}
	if inviteSentCounter != nil {
		inviteSentCounter.Add(ctx, 1)
	}
}

// RecordMatchConfirmed records a promotion into confirmed_going.
func RecordMatchConfirmed(ctx context.Context) {
	if matchConfirmedCounter != nil {
		matchConfirmedCounter.Add(ctx, 1)
	}
}

// RecordMeetupCompleted records a reward issuance.
func RecordMeetupCompleted(ctx context.Context) {
	if meetupCompletedCounter != nil {
		meetupCompletedCounter.Add(ctx, 1)
	}
}

// RecordCheckInDistance records how far from the spot a check-in landed.
func RecordCheckInDistance(ctx context.Context, meters float64, within bool) {
	if checkInDistance != nil {
		checkInDistance.Record(ctx, meters,
			metric.WithAttributes(attribute.Bool("within_radius", within)),
		)
	}
}
