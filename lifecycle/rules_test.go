package lifecycle

import (
	"testing"
	"time"

	"aquacare-backend/models"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEffectiveStatus(t *testing.T) {
	today := date(2024, 6, 1)

	tests := []struct {
		name      string
		status    string
		scheduled time.Time
		want      string
	}{
		{"scheduled in the past is overdue", models.ServiceStatusScheduled, date(2024, 1, 1), models.ServiceStatusOverdue},
		{"assigned in the past is overdue", models.ServiceStatusAssigned, date(2024, 5, 31), models.ServiceStatusOverdue},
		{"scheduled today is not overdue", models.ServiceStatusScheduled, date(2024, 6, 1), models.ServiceStatusScheduled},
		{"scheduled later today ignores time of day", models.ServiceStatusScheduled, time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC), models.ServiceStatusScheduled},
		{"scheduled in the future stays scheduled", models.ServiceStatusScheduled, date(2024, 7, 1), models.ServiceStatusScheduled},
		{"completed never becomes overdue", models.ServiceStatusCompleted, date(2024, 1, 1), models.ServiceStatusCompleted},
		{"cancelled never becomes overdue", models.ServiceStatusCancelled, date(2024, 1, 1), models.ServiceStatusCancelled},
		{"in_progress passes through", models.ServiceStatusInProgress, date(2024, 1, 1), models.ServiceStatusInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveStatus(tt.status, tt.scheduled, today))
		})
	}
}

func TestContractEffectiveStatus(t *testing.T) {
	today := date(2024, 6, 1)

	tests := []struct {
		name     string
		contract models.AmcContract
		want     string
	}{
		{
			"active past end date projects expired",
			models.AmcContract{Status: models.AmcStatusActive, EndDate: date(2024, 5, 1)},
			models.AmcStatusExpired,
		},
		{
			"active inside notice window projects pending renewal",
			models.AmcContract{Status: models.AmcStatusActive, EndDate: date(2024, 6, 20)},
			models.AmcStatusPendingRenewal,
		},
		{
			"active well before end stays active",
			models.AmcContract{Status: models.AmcStatusActive, EndDate: date(2025, 5, 1)},
			models.AmcStatusActive,
		},
		{
			"cancelled is terminal",
			models.AmcContract{Status: models.AmcStatusCancelled, EndDate: date(2025, 5, 1)},
			models.AmcStatusCancelled,
		},
		{
			"expired is terminal",
			models.AmcContract{Status: models.AmcStatusExpired, EndDate: date(2025, 5, 1)},
			models.AmcStatusExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContractEffectiveStatus(tt.contract, today))
		})
	}
}

func TestBuildRenewalIsFullReset(t *testing.T) {
	prior := models.AmcContract{
		Status:            models.AmcStatusExpired,
		ServicesCompleted: 7,
		IsPaid:            true,
		StartDate:         date(2023, 1, 1),
		EndDate:           date(2024, 1, 1),
		Amount:            4000,
	}

	renewed := BuildRenewal(prior, date(2025, 1, 1), 5000)

	assert.Equal(t, models.AmcStatusActive, renewed.Status)
	assert.Equal(t, 0, renewed.ServicesCompleted)
	assert.False(t, renewed.IsPaid)
	assert.Equal(t, date(2025, 1, 1), renewed.EndDate)
	assert.Equal(t, 5000.0, renewed.Amount)
}

func TestBuildResolution(t *testing.T) {
	now := time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC)
	c := models.Complaint{Status: models.ComplaintStatusInProgress}

	resolved := BuildResolution(c, "replaced membrane", now)

	assert.Equal(t, models.ComplaintStatusResolved, resolved.Status)
	assert.Equal(t, now, *resolved.ResolvedDate)
	assert.Equal(t, "replaced membrane", resolved.ResolutionNotes)
}

func TestFreeServiceWindow(t *testing.T) {
	contract := &models.AmcContract{EndDate: date(2024, 6, 15)}
	free := models.Service{ServiceType: models.ServiceTypeFree}
	paid := models.Service{ServiceType: models.ServiceTypePaid}

	until := FreeServiceValidUntil(free, contract)
	assert.NotNil(t, until)
	assert.Equal(t, date(2024, 6, 15), *until)

	assert.Nil(t, FreeServiceValidUntil(paid, contract))
	assert.Nil(t, FreeServiceValidUntil(free, nil))

	assert.True(t, IsFreeServiceActive(free, contract, date(2024, 6, 15)))
	assert.True(t, IsFreeServiceActive(free, contract, date(2024, 6, 1)))
	assert.False(t, IsFreeServiceActive(free, contract, date(2024, 6, 16)))
	assert.False(t, IsFreeServiceActive(free, nil, date(2024, 6, 1)))
}
