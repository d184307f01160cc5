// Package lifecycle holds the pure state-transition builders and the
// read-time status projections for services and AMC contracts. Nothing
// here touches the store; callers pass the current date in.
package lifecycle

import (
	"time"

	"aquacare-backend/models"
	"aquacare-backend/utils"
)

// EffectiveStatus projects "overdue" onto a scheduled or assigned
// service whose date has passed. The stored status never becomes
// overdue; only presentation and report counts use this value. The
// comparison is date-only so time-of-day cannot flip a row early.
func EffectiveStatus(status string, scheduledDate, today time.Time) string {
	if status != models.ServiceStatusScheduled && status != models.ServiceStatusAssigned {
		return status
	}
	if utils.BeginningOfDay(scheduledDate).Before(utils.BeginningOfDay(today)) {
		return models.ServiceStatusOverdue
	}
	return status
}

// Days before end_date at which an active contract shows as pending
// renewal.
const renewalNoticeDays = 30

// ContractEffectiveStatus projects expiry onto an active contract past
// its end date, and pending_renewal onto one inside the renewal notice
// window. Terminal statuses pass through untouched.
func ContractEffectiveStatus(c models.AmcContract, today time.Time) string {
	if c.Status != models.AmcStatusActive {
		return c.Status
	}
	day := utils.BeginningOfDay(today)
	end := utils.BeginningOfDay(c.EndDate)
	if end.Before(day) {
		return models.AmcStatusExpired
	}
	if !end.After(day.AddDate(0, 0, renewalNoticeDays)) {
		return models.AmcStatusPendingRenewal
	}
	return models.AmcStatusActive
}

// BuildRenewal returns the contract reset for a new period. Renewal is
// always a full reset regardless of the prior period's state: the new
// period starts from a clean completion count and an unpaid flag.
func BuildRenewal(c models.AmcContract, newEndDate time.Time, amount float64) models.AmcContract {
	c.Status = models.AmcStatusActive
	c.ServicesCompleted = 0
	c.IsPaid = false
	c.EndDate = newEndDate
	c.Amount = amount
	return c
}

// BuildResolution closes a complaint. One-way transition; re-opening is
// a separate action.
func BuildResolution(c models.Complaint, notes string, now time.Time) models.Complaint {
	c.Status = models.ComplaintStatusResolved
	c.ResolvedDate = &now
	c.ResolutionNotes = notes
	return c
}

// FreeServiceValidUntil reports the last day a free_service visit is
// billed as free: the end date of its AMC contract. Services of other
// types, or free services with no contract attached, have no window.
func FreeServiceValidUntil(svc models.Service, contract *models.AmcContract) *time.Time {
	if svc.ServiceType != models.ServiceTypeFree || contract == nil {
		return nil
	}
	end := utils.BeginningOfDay(contract.EndDate)
	return &end
}

// IsFreeServiceActive reports whether the free window still covers
// today. The service_type column is never mutated when the window
// lapses; the same record simply prices as a paid visit.
func IsFreeServiceActive(svc models.Service, contract *models.AmcContract, today time.Time) bool {
	until := FreeServiceValidUntil(svc, contract)
	if until == nil {
		return false
	}
	return !utils.BeginningOfDay(today).After(*until)
}
