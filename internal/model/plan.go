package model

import (
	"encoding/json"
	"fmt"
	"time"
)

type PlanType string

const (
	PlanTypeSingle  PlanType = "single"  // pay per class
	PlanTypeMonthly PlanType = "monthly" // monthly subscription
)

type SessionFormat string

const (
	SessionFormatOneOnOne  SessionFormat = "one-on-one"
	SessionFormatOneToMany SessionFormat = "one-to-many"
)

// Layouts used for the schedule fields of group classes.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Offering is the type-dependent part of a Plan: either *SingleOffering or *MonthlyOffering.
type Offering interface {
	Type() PlanType
	// DisplayPrice is the price shown in plan lists.
	DisplayPrice() float64
	offering()
}

// Schedule is the fixed date and time of a group class.
type Schedule struct {
	Date string `json:"scheduledDate"` // YYYY-MM-DD
	Time string `json:"scheduledTime"` // HH:MM
}

// SingleOffering is a pay-per-class plan.
type SingleOffering struct {
	Price    float64
	Duration int       // minutes
	Schedule *Schedule // only for one-to-many
}

func (*SingleOffering) Type() PlanType { return PlanTypeSingle }
func (o *SingleOffering) DisplayPrice() float64 { return o.Price }
func (*SingleOffering) offering() {}

// MonthlyOffering is a recurring subscription plan.
type MonthlyOffering struct {
	MonthlyPrice    float64
	ClassesPerMonth int
}

func (*MonthlyOffering) Type() PlanType { return PlanTypeMonthly }
func (o *MonthlyOffering) DisplayPrice() float64 { return o.MonthlyPrice }
func (*MonthlyOffering) offering() {}

// Plan is a practitioner's bookable offering.
type Plan struct {
	ID               string
	Name             string
	Description      string
	SessionClassType string
	SessionFormat    SessionFormat
	IsActive         bool
	CreatedAt        time.Time
	Offering         Offering
}

// Type returns the plan type, or "" when the offering is missing.
func (p *Plan) Type() PlanType {
	if p.Offering == nil {
		return ""
	}
	return p.Offering.Type()
}

// Single returns the single-class offering if the plan is one.
func (p *Plan) Single() (*SingleOffering, bool) {
	o, ok := p.Offering.(*SingleOffering)
	return o, ok
}

// Monthly returns the subscription offering if the plan is one.
func (p *Plan) Monthly() (*MonthlyOffering, bool) {
	o, ok := p.Offering.(*MonthlyOffering)
	return o, ok
}

// planWire is the flat object the server stores and returns.
type planWire struct {
	ID               string        `json:"_id,omitempty"`
	AltID            string        `json:"id,omitempty"`
	Name             string        `json:"name"`
	Type             PlanType      `json:"type"`
	Description      string        `json:"description,omitempty"`
	SessionClassType string        `json:"sessionClassType,omitempty"`
	SessionFormat    SessionFormat `json:"sessionFormat,omitempty"`
	Price            float64       `json:"price,omitempty"`
	Duration         int           `json:"duration,omitempty"`
	ScheduledDate    string        `json:"scheduledDate,omitempty"`
	ScheduledTime    string        `json:"scheduledTime,omitempty"`
	MonthlyPrice     float64       `json:"monthlyPrice,omitempty"`
	ClassesPerMonth  int           `json:"classesPerMonth,omitempty"`
	IsActive         bool          `json:"isActive"`
	CreatedAt        *time.Time    `json:"createdAt,omitempty"`
}

// MarshalJSON writes the flat server shape. Monthly plans mirror monthlyPrice into price.
func (p Plan) MarshalJSON() ([]byte, error) {
	w := planWire{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		SessionClassType: p.SessionClassType,
		SessionFormat:    p.SessionFormat,
		IsActive:         p.IsActive,
	}
	if !p.CreatedAt.IsZero() {
		createdAt := p.CreatedAt
		w.CreatedAt = &createdAt
	}

	switch o := p.Offering.(type) {
	case *SingleOffering:
		w.Type = PlanTypeSingle
		w.Price = o.Price
		w.Duration = o.Duration
		if o.Schedule != nil {
			w.ScheduledDate = o.Schedule.Date
			w.ScheduledTime = o.Schedule.Time
		}
	case *MonthlyOffering:
		w.Type = PlanTypeMonthly
		w.MonthlyPrice = o.MonthlyPrice
		w.ClassesPerMonth = o.ClassesPerMonth
		w.Price = o.MonthlyPrice
	default:
		return nil, fmt.Errorf("marshal plan %q: missing offering", p.Name)
	}

	return json.Marshal(w)
}

// UnmarshalJSON reads the flat server shape. Fields that do not belong to the
// plan type are dropped.
func (p *Plan) UnmarshalJSON(data []byte) error {
	var w planWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	id := w.ID
	if id == "" {
		id = w.AltID
	}

	plan := Plan{
		ID:               id,
		Name:             w.Name,
		Description:      w.Description,
		SessionClassType: w.SessionClassType,
		SessionFormat:    w.SessionFormat,
		IsActive:         w.IsActive,
	}
	if w.CreatedAt != nil {
		plan.CreatedAt = *w.CreatedAt
	}

	switch w.Type {
	case PlanTypeSingle:
		single := &SingleOffering{Price: w.Price, Duration: w.Duration}
		if w.SessionFormat == SessionFormatOneToMany && (w.ScheduledDate != "" || w.ScheduledTime != "") {
			single.Schedule = &Schedule{Date: w.ScheduledDate, Time: w.ScheduledTime}
		}
		plan.Offering = single
	case PlanTypeMonthly:
		monthlyPrice := w.MonthlyPrice
		if monthlyPrice == 0 {
			monthlyPrice = w.Price
		}
		plan.Offering = &MonthlyOffering{MonthlyPrice: monthlyPrice, ClassesPerMonth: w.ClassesPerMonth}
	default:
		return fmt.Errorf("unknown plan type %q", w.Type)
	}

	*p = plan
	return nil
}
