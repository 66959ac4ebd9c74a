package domain

import "time"

// Affidavit is the legal certificate of destruction issued for a completed job.
// Once issued its content is frozen; it can only be locked or revoked, never deleted.
type Affidavit struct {
	Document
	JobID             string     `json:"job_id"`
	CustomerID        string     `json:"customer_id"`
	DestructionMethod string     `json:"destruction_method"`
	DestructionDate   *time.Time `json:"destruction_date,omitempty"`
	DestructionSite   string     `json:"destruction_site,omitempty"`
	WitnessName       string     `json:"witness_name,omitempty"`
	Statement         string     `json:"statement,omitempty"`
	DocumentURL       string     `json:"document_url,omitempty"`
	DateIssued        *time.Time `json:"date_issued,omitempty"`
	LockedTimestamp   *time.Time `json:"locked_timestamp,omitempty"`
	RevokedTimestamp  *time.Time `json:"revoked_timestamp,omitempty"`
	RevocationReason  string     `json:"revocation_reason,omitempty"`
}

func (a *Affidavit) EntityType() EntityType { return EntityAffidavit }

func (a *Affidavit) StampStatus(s Status, at time.Time) {
	switch s {
	case StatusIssued:
		a.DateIssued = timePtr(at)
	case StatusLocked:
		a.LockedTimestamp = timePtr(at)
	case StatusRevoked:
		a.RevokedTimestamp = timePtr(at)
	}
}

// SetRevocationReason records why the affidavit was revoked.
func (a *Affidavit) SetRevocationReason(reason string) { a.RevocationReason = reason }
