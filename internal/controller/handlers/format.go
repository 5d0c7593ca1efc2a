package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/wellness_client/internal/api"
	"github.com/Freeeeeet/wellness_client/internal/model"
	"github.com/Freeeeeet/wellness_client/internal/service"
	"github.com/go-telegram/bot/models"
)

// Callback data prefixes. The plan ID follows the colon.
const (
	TogglePlan    = "toggle_plan:"    // toggle_plan:<id>
	EditPrice     = "edit_price:"     // edit_price:<id>
	DeletePlan    = "delete_plan:"    // delete_plan:<id>
	ConfirmDelete = "confirm_delete:" // confirm_delete:<id>
	CancelDelete  = "cancel_delete"

	PlanInput     = "plan_input:" // plan_input:<value>, same as typing value
	CreatePlanYes = "create_plan_yes"
	CreatePlanNo  = "create_plan_no"
)

// FormatPrice prints an amount without trailing zeros.
func FormatPrice(amount float64) string {
	return "₹" + strconv.FormatFloat(amount, 'f', -1, 64)
}

// FormatPlan renders one plan for the /plans list.
func FormatPlan(plan *model.Plan) string {
	var sb strings.Builder

	status := "🟢 Активен"
	if !plan.IsActive {
		status = "⚪️ Неактивен"
	}
	fmt.Fprintf(&sb, "📋 %s\n%s\n", plan.Name, status)

	switch o := plan.Offering.(type) {
	case *model.SingleOffering:
		fmt.Fprintf(&sb, "💰 %s за занятие\n⏱ %d мин\n", FormatPrice(o.Price), o.Duration)
		if plan.SessionFormat == model.SessionFormatOneToMany {
			sb.WriteString("👥 Групповое занятие\n")
		} else {
			sb.WriteString("👤 Индивидуальное занятие\n")
		}
		if o.Schedule != nil {
			fmt.Fprintf(&sb, "📅 %s в %s\n", o.Schedule.Date, o.Schedule.Time)
		}
	case *model.MonthlyOffering:
		fmt.Fprintf(&sb, "💰 %s в месяц\n🔁 %d занятий в месяц\n", FormatPrice(o.MonthlyPrice), o.ClassesPerMonth)
	}

	if plan.Description != "" {
		fmt.Fprintf(&sb, "📝 %s\n", plan.Description)
	}

	return strings.TrimRight(sb.String(), "\n")
}

// FormatForm summarises a form before it is submitted.
func FormatForm(form *service.PlanForm) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Название: %s\n", form.Name)

	if form.Type == string(model.PlanTypeMonthly) {
		sb.WriteString("Тип: подписка\n")
		fmt.Fprintf(&sb, "Цена в месяц: %s\n", form.MonthlyPrice)
		fmt.Fprintf(&sb, "Занятий в месяц: %s\n", form.ClassesPerMonth)
	} else {
		sb.WriteString("Тип: разовое занятие\n")
		fmt.Fprintf(&sb, "Формат: %s\n", form.SessionFormat)
		fmt.Fprintf(&sb, "Цена: %s\n", form.Price)
		fmt.Fprintf(&sb, "Длительность: %s мин\n", form.Duration)
		if form.SessionFormat == string(model.SessionFormatOneToMany) {
			fmt.Fprintf(&sb, "Дата и время: %s %s\n", form.ScheduledDate, form.ScheduledTime)
		}
	}
	if form.Description != "" {
		fmt.Fprintf(&sb, "Описание: %s\n", form.Description)
	}

	return strings.TrimRight(sb.String(), "\n")
}

// PlanKeyboard builds the per-plan action buttons.
func PlanKeyboard(plan *model.Plan) *models.InlineKeyboardMarkup {
	toggleText := "⏸ Выключить"
	if !plan.IsActive {
		toggleText = "▶️ Включить"
	}

	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: toggleText, CallbackData: TogglePlan + plan.ID},
				{Text: "✏️ Цена", CallbackData: EditPrice + plan.ID},
			},
			{
				{Text: "🗑 Удалить", CallbackData: DeletePlan + plan.ID},
			},
		},
	}
}

// ErrorText converts a service error into a chat reply.
func ErrorText(err error) string {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		return "❌ " + vErr.Reason
	case errors.Is(err, service.ErrResyncFailed):
		return "⚠️ Изменения сохранены, но список планов не обновился. Используйте /refresh."
	case errors.Is(err, service.ErrNotLoggedIn):
		return "🔒 Сначала войдите: /login"
	case errors.Is(err, api.ErrUnauthorized):
		return "🔒 Сессия истекла. Войдите снова: /login"
	case errors.Is(err, service.ErrPlanNotFound):
		return "❌ План не найден. Обновите список: /plans"
	}
	return "❌ " + api.UserMessage(err)
}

// parseCallbackID extracts the ID after prefix.
func parseCallbackID(data, prefix string) (string, error) {
	id, ok := strings.CutPrefix(data, prefix)
	if !ok || id == "" {
		return "", fmt.Errorf("invalid callback data %q", data)
	}
	return id, nil
}
