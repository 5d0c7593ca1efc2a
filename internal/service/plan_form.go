package service

import (
	"strconv"

	"github.com/Freeeeeet/wellness_client/internal/model"
)

// PlanForm is the raw plan input as typed by the practitioner.
type PlanForm struct {
	Name             string
	Type             string
	Description      string
	SessionClassType string
	SessionFormat    string
	Price            string
	Duration         string
	ScheduledDate    string
	ScheduledTime    string
	MonthlyPrice     string
	ClassesPerMonth  string
	IsActive         bool
}

// NewPlanForm returns an empty form with the default type and format.
func NewPlanForm() *PlanForm {
	return &PlanForm{
		Type:          string(model.PlanTypeSingle),
		SessionFormat: string(model.SessionFormatOneOnOne),
		IsActive:      true,
	}
}

// Reset returns the form to its defaults.
func (f *PlanForm) Reset() {
	*f = *NewPlanForm()
}

// PlanFormFrom prefills a form for editing plan.
func PlanFormFrom(plan *model.Plan) *PlanForm {
	form := &PlanForm{
		Name:             plan.Name,
		Type:             string(plan.Type()),
		Description:      plan.Description,
		SessionClassType: plan.SessionClassType,
		SessionFormat:    string(plan.SessionFormat),
		IsActive:         plan.IsActive,
	}
	if form.SessionFormat == "" {
		form.SessionFormat = string(model.SessionFormatOneOnOne)
	}

	switch o := plan.Offering.(type) {
	case *model.SingleOffering:
		form.Price = formatAmount(o.Price)
		form.Duration = strconv.Itoa(o.Duration)
		if o.Schedule != nil {
			form.ScheduledDate = o.Schedule.Date
			form.ScheduledTime = o.Schedule.Time
		}
	case *model.MonthlyOffering:
		form.MonthlyPrice = formatAmount(o.MonthlyPrice)
		form.ClassesPerMonth = strconv.Itoa(o.ClassesPerMonth)
	}

	return form
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
