package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegistry_BusinessCounters(t *testing.T) {
	reg := NewRegistry(prometheus.NewRegistry())

	reg.ObserveHourReview("approved")
	reg.ObserveHourReview("approved")
	reg.ObserveHourReview("rejected")
	reg.ObserveCheckIn("checked_in")
	reg.ObserveRegistration("attendee", "registered")
	reg.ObserveHourGrant()

	assert.Equal(t, 2.0, testutil.ToFloat64(reg.HourReviewsTotal.WithLabelValues("approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.HourReviewsTotal.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.CheckInsTotal.WithLabelValues("checked_in")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.RegistrationsTotal.WithLabelValues("attendee", "registered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.HourGrantsTotal))
}

func TestRegistry_NilIsNoop(t *testing.T) {
	var reg *Registry
	assert.NotPanics(t, func() {
		reg.ObserveHourReview("approved")
		reg.ObserveCheckIn("not_open")
		reg.ObserveNotification("hour_request.reviewed")
	})
}
