package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialType is the kind of material handed over for destruction.
type MaterialType string

const (
	MaterialPaper       MaterialType = "paper"
	MaterialHardDrive   MaterialType = "hard_drive"
	MaterialElectronics MaterialType = "electronics"
	MaterialMedia       MaterialType = "media"
	MaterialProduct     MaterialType = "product"
	MaterialUniform     MaterialType = "uniform"
	MaterialOther       MaterialType = "other"
)

// PackagingType describes how material arrived.
type PackagingType string

const (
	PackagingBox     PackagingType = "box"
	PackagingBin     PackagingType = "bin"
	PackagingBag     PackagingType = "bag"
	PackagingPallet  PackagingType = "pallet"
	PackagingGaylord PackagingType = "gaylord"
	PackagingLoose   PackagingType = "loose"
)

// UnitOfMeasure is the unit a material quantity is counted in.
type UnitOfMeasure string

const (
	UnitPounds UnitOfMeasure = "lbs"
	UnitKilos  UnitOfMeasure = "kg"
	UnitEach   UnitOfMeasure = "each"
	UnitBoxes  UnitOfMeasure = "boxes"
)

// FinalDisposition is what happened to the material after destruction.
type FinalDisposition string

const (
	DispositionRecycled    FinalDisposition = "recycled"
	DispositionIncinerated FinalDisposition = "incinerated"
	DispositionLandfill    FinalDisposition = "landfill"
	DispositionWasteEnergy FinalDisposition = "waste_to_energy"
)

// Material is a descriptive entry owned by a Job. It never feeds the totals calculation.
type Material struct {
	ID               string           `json:"id"`
	MaterialType     MaterialType     `json:"material_type" validate:"required,oneof=paper hard_drive electronics media product uniform other"`
	PackagingType    PackagingType    `json:"packaging_type" validate:"required,oneof=box bin bag pallet gaylord loose"`
	Quantity         decimal.Decimal  `json:"quantity"`
	UnitOfMeasure    UnitOfMeasure    `json:"unit_of_measure" validate:"required,oneof=lbs kg each boxes"`
	FinalDisposition FinalDisposition `json:"final_disposition" validate:"required,oneof=recycled incinerated landfill waste_to_energy"`
}

// Job is a scheduled destruction service visit.
type Job struct {
	Document
	CustomerID           string     `json:"customer_id" validate:"required"`
	EstimateID           string     `json:"estimate_id,omitempty"`
	DestructionMethod    string     `json:"destruction_method"`
	Description          string     `json:"description,omitempty"`
	ServiceAddress       string     `json:"service_address,omitempty"`
	ScheduledDate        *time.Time `json:"scheduled_date,omitempty"`
	ScheduledTime        string     `json:"scheduled_time,omitempty"`
	AssignedTo           string     `json:"assigned_to,omitempty"`
	Notes                string     `json:"notes,omitempty"`
	Materials            []Material `json:"materials" validate:"dive"`
	ActualCompletionDate *time.Time `json:"actual_completion_date,omitempty"`
	StartedTimestamp     *time.Time `json:"started_timestamp,omitempty"`
	CompletedTimestamp   *time.Time `json:"completed_timestamp,omitempty"`
	ArchivedTimestamp    *time.Time `json:"archived_timestamp,omitempty"`
}

func (j *Job) EntityType() EntityType { return EntityJob }

func (j *Job) StampStatus(s Status, at time.Time) {
	switch s {
	case StatusInProgress:
		j.StartedTimestamp = timePtr(at)
	case StatusCompleted:
		j.CompletedTimestamp = timePtr(at)
	case StatusArchived:
		j.ArchivedTimestamp = timePtr(at)
	}
}
